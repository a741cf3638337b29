package parser

import (
	"regexp"
	"strconv"

	"github.com/mariasu11/netlog/pkg/models"
)

// CiscoASAParser parses Cisco ASA firewall syslog output. ASA message ids
// take the form %ASA-SEVERITY-MSGNUM, optionally behind a syslog priority
// and timestamp. Detected lines that fail the structured grammar degrade
// to a raw Info record.
type CiscoASAParser struct {
	structuredPattern *regexp.Regexp
	timestampPattern  *regexp.Regexp
	priorityPattern   *regexp.Regexp
	detectionPatterns []*regexp.Regexp
}

// NewCiscoASAParser creates a parser producing cisco-asa records
func NewCiscoASAParser() *CiscoASAParser {
	return &CiscoASAParser{
		// [<pri>][timestamp hostname :] %ASA-SEVERITY-MSGNUM: message
		structuredPattern: regexp.MustCompile(`%(ASA|FWSM|PIX)-(\d)-(\d+):\s*(.+)`),
		timestampPattern:  regexp.MustCompile(`(\w+\s+\d+\s+\d+\s+\d+:\d+:\d+|\w+\s+\d+\s+\d+:\d+:\d+)`),
		priorityPattern:   regexp.MustCompile(`^<(\d+)>`),
		detectionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`%ASA-`),
			regexp.MustCompile(`%FWSM-`),
			regexp.MustCompile(`%PIX-`),
			regexp.MustCompile(`Built\s+(inbound|outbound)`),
			regexp.MustCompile(`Teardown\s+(TCP|UDP)`),
		},
	}
}

// CanParse reports whether any detection pattern matches the line
func (p *CiscoASAParser) CanParse(raw string) bool {
	for _, pattern := range p.detectionPatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

// Parse extracts the %ASA-SEV-MSGNUM form when present, otherwise emits a
// raw record with Info severity and a note in metadata
func (p *CiscoASAParser) Parse(raw string) *models.LogRecord {
	if raw == "" {
		return nil
	}

	if match := p.structuredPattern.FindStringSubmatch(raw); match != nil {
		product := match[1]
		severityDigit, _ := strconv.Atoi(match[2])
		messageNumber := match[3]
		message := cleanMessage(match[4])

		record := models.NewLogRecord(mapCiscoSeverity(severityDigit), message, models.DeviceTypeCiscoASA)
		record.RawMessage = raw
		record.Facility = product
		record.AddMetadata("message_number", messageNumber)
		record.AddMetadata("cisco_severity", match[2])
		if priMatch := p.priorityPattern.FindStringSubmatch(raw); priMatch != nil {
			record.AddMetadata("syslog_priority", priMatch[1])
		}
		if tsMatch := p.timestampPattern.FindStringSubmatch(raw); tsMatch != nil {
			record.Timestamp = parseCiscoTimestamp(tsMatch[1])
		}
		if hostname := extractHostname(raw); hostname != "" {
			record.Hostname = hostname
		}
		return record
	}

	record := models.NewLogRecord(models.SeverityInfo, raw, models.DeviceTypeCiscoASA)
	record.RawMessage = raw
	record.AddMetadata("parser_note", "unstructured ASA line")
	return record
}

// ParseBatch applies Parse to each line, dropping unrecognized ones
func (p *CiscoASAParser) ParseBatch(raws []string) []*models.LogRecord {
	return ParseBatch(p, raws)
}

// DeviceType returns the device family stamped on every produced record
func (p *CiscoASAParser) DeviceType() models.DeviceType {
	return models.DeviceTypeCiscoASA
}

// Name returns the parser name
func (p *CiscoASAParser) Name() string {
	return "cisco-asa"
}

// Version returns the parser version
func (p *CiscoASAParser) Version() string {
	return DefaultVersion
}

// SupportedPatterns returns documentation-facing pattern examples
func (p *CiscoASAParser) SupportedPatterns() []string {
	return []string{
		`%ASA-\d-\d+:.*`,
		`%FWSM-\d-\d+:.*`,
		`<\d+>.*%ASA-\d-\d+:.*`,
	}
}
