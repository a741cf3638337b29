package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/mariasu11/netlog/pkg/models"
)

// CiscoNXOSParser parses Cisco NX-OS syslog output. NX-OS prefixes lines
// with a year-first timestamp and may carry a slot number inside the
// message id (%FACILITY-SLOT-SEVERITY-MNEMONIC). Lines matching a
// detection pattern but not the structured grammar degrade to a raw
// Info record so the contract is still honored.
type CiscoNXOSParser struct {
	structuredPattern *regexp.Regexp
	timestampPattern  *regexp.Regexp
	detectionPatterns []*regexp.Regexp
}

// NewCiscoNXOSParser creates a parser producing cisco-nx-os records
func NewCiscoNXOSParser() *CiscoNXOSParser {
	return &CiscoNXOSParser{
		// 2024 Mar 1 10:30:45[.123][ TZ] [hostname] %FACILITY[-SLOT]-SEV-MNEMONIC: message
		structuredPattern: regexp.MustCompile(`%([A-Z][A-Z_0-9]*?)-(?:(\d+)-)?(\d)-([A-Z_0-9]+):\s*(.+)`),
		timestampPattern:  regexp.MustCompile(`(\d{4}\s+\w+\s+\d+\s+\d+:\d+:\d+)`),
		detectionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`%NXOS-`),
			regexp.MustCompile(`\d{4} \w+\s+\d+ \d+:\d+:\d+`),
			regexp.MustCompile(`%ETHPORT-|%VSHD-|%VDC_MGR-|%PLATFORM-`),
		},
	}
}

// CanParse reports whether any detection pattern matches the line
func (p *CiscoNXOSParser) CanParse(raw string) bool {
	for _, pattern := range p.detectionPatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

// Parse extracts the structured NX-OS form when present, otherwise emits
// a raw record with Info severity and a note in metadata
func (p *CiscoNXOSParser) Parse(raw string) *models.LogRecord {
	if raw == "" {
		return nil
	}

	if match := p.structuredPattern.FindStringSubmatch(raw); match != nil {
		facility := match[1]
		slot := match[2]
		severityDigit, _ := strconv.Atoi(match[3])
		mnemonic := match[4]
		message := cleanMessage(match[5])

		record := models.NewLogRecord(mapCiscoSeverity(severityDigit), message, models.DeviceTypeCiscoNXOS)
		record.RawMessage = raw
		record.Facility = facility
		record.AddMetadata("mnemonic", mnemonic)
		record.AddMetadata("cisco_severity", match[3])
		if slot != "" {
			record.AddMetadata("slot", slot)
		}
		if tsMatch := p.timestampPattern.FindStringSubmatch(raw); tsMatch != nil {
			record.Timestamp = parseNXOSTimestamp(tsMatch[1])
		}
		if hostname := extractHostname(raw); hostname != "" {
			record.Hostname = hostname
		}
		return record
	}

	record := models.NewLogRecord(models.SeverityInfo, raw, models.DeviceTypeCiscoNXOS)
	record.RawMessage = raw
	record.AddMetadata("parser_note", "unstructured NX-OS line")
	return record
}

// ParseBatch applies Parse to each line, dropping unrecognized ones
func (p *CiscoNXOSParser) ParseBatch(raws []string) []*models.LogRecord {
	return ParseBatch(p, raws)
}

// DeviceType returns the device family stamped on every produced record
func (p *CiscoNXOSParser) DeviceType() models.DeviceType {
	return models.DeviceTypeCiscoNXOS
}

// Name returns the parser name
func (p *CiscoNXOSParser) Name() string {
	return "cisco-nx-os"
}

// Version returns the parser version
func (p *CiscoNXOSParser) Version() string {
	return DefaultVersion
}

// SupportedPatterns returns documentation-facing pattern examples
func (p *CiscoNXOSParser) SupportedPatterns() []string {
	return []string{
		`\d{4} \w+\s+\d+ \d+:\d+:\d+.*%[A-Z_0-9]+-\d-[A-Z_0-9]+:.*`,
		`%NXOS-\d+-[A-Z_]+:.*`,
	}
}

func parseNXOSTimestamp(text string) time.Time {
	return parseTimestampLayouts(text, []string{"2006 Jan 2 15:04:05"})
}
