package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mariasu11/netlog/pkg/models"
)

// CiscoIOSParser parses Cisco IOS and IOS-XE syslog output. Parse tries
// three progressively looser grammars: the standard timestamped form, the
// syslog-priority-prefixed form, and finally any line carrying a
// %FACILITY-SEVERITY-MNEMONIC token.
type CiscoIOSParser struct {
	deviceType models.DeviceType

	standardPattern  *regexp.Regexp
	priorityPattern  *regexp.Regexp
	messageIDPattern *regexp.Regexp
	timestampPattern *regexp.Regexp

	detectionPatterns []*regexp.Regexp
}

// NewCiscoIOSParser creates a parser producing cisco-ios records
func NewCiscoIOSParser() *CiscoIOSParser {
	return newCiscoIOSParser(models.DeviceTypeCiscoIOS)
}

// NewCiscoIOSXEParser creates a parser producing cisco-ios-xe records.
// IOS-XE shares the IOS message grammar.
func NewCiscoIOSXEParser() *CiscoIOSParser {
	return newCiscoIOSParser(models.DeviceTypeCiscoIOSXE)
}

func newCiscoIOSParser(deviceType models.DeviceType) *CiscoIOSParser {
	return &CiscoIOSParser{
		deviceType: deviceType,

		// *Mar 1 00:00:00.000: %FACILITY-SEVERITY-MNEMONIC: message
		standardPattern: regexp.MustCompile(`\*?(\w+\s+\d+\s+\d+:\d+:\d+(?:\.\d+)?)\s*:\s*%([A-Z_]+)-(\d+)-([A-Z_]+):\s*(.+)`),
		// <priority>timestamp: %FACILITY-SEVERITY-MNEMONIC: message
		priorityPattern: regexp.MustCompile(`<(\d+)>(.+?):\s*%([A-Z_]+)-(\d+)-([A-Z_]+):\s*(.+)`),
		// %FACILITY-SEVERITY-MNEMONIC anywhere in the line
		messageIDPattern: regexp.MustCompile(`%([A-Z_]+)-(\d+)-([A-Z_]+)`),
		timestampPattern: regexp.MustCompile(`\*?(\w+\s+\d+\s+\d+:\d+:\d+(?:\.\d+)?|\d+:\d+:\d+(?:\.\d+)?|\w+\s+\d+\s+\d+\s+\d+:\d+:\d+)`),

		detectionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`%[A-Z_]+-\d+-[A-Z_]+:`),
			regexp.MustCompile(`\*\w+\s+\d+\s+\d+:\d+:\d+`),
			regexp.MustCompile(`%LINEPROTO-|%LINK-|%BGP-|%OSPF-`),
			regexp.MustCompile(`%SYS-|%CONFIG_I-|%SEC-`),
		},
	}
}

// CanParse reports whether any detection pattern matches the line
func (p *CiscoIOSParser) CanParse(raw string) bool {
	for _, pattern := range p.detectionPatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

// Parse tries each grammar in order and returns the first match
func (p *CiscoIOSParser) Parse(raw string) *models.LogRecord {
	if raw == "" {
		return nil
	}

	if record := p.parseStandardFormat(raw); record != nil {
		return record
	}
	if record := p.parsePriorityFormat(raw); record != nil {
		return record
	}
	return p.parseSimpleFormat(raw)
}

// ParseBatch applies Parse to each line, dropping unrecognized ones
func (p *CiscoIOSParser) ParseBatch(raws []string) []*models.LogRecord {
	return ParseBatch(p, raws)
}

// DeviceType returns the device family stamped on every produced record
func (p *CiscoIOSParser) DeviceType() models.DeviceType {
	return p.deviceType
}

// Name returns the parser name
func (p *CiscoIOSParser) Name() string {
	if p.deviceType == models.DeviceTypeCiscoIOSXE {
		return "cisco-ios-xe"
	}
	return "cisco-ios"
}

// Version returns the parser version
func (p *CiscoIOSParser) Version() string {
	return DefaultVersion
}

// SupportedPatterns returns documentation-facing pattern examples
func (p *CiscoIOSParser) SupportedPatterns() []string {
	return []string{
		`\*\w+\s+\d+\s+\d+:\d+:\d+(?:\.\d+)?\s*:\s*%[A-Z_]+-\d+-[A-Z_]+:.*`,
		`<\d+>.+?:\s*%[A-Z_]+-\d+-[A-Z_]+:.*`,
		`\d+:\d+:\d+(?:\.\d+)?\s*:\s*%[A-Z_]+-\d+-[A-Z_]+:.*`,
	}
}

func (p *CiscoIOSParser) parseStandardFormat(raw string) *models.LogRecord {
	match := p.standardPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	timestamp := parseCiscoTimestamp(match[1])
	facility := match[2]
	severityStr := match[3]
	mnemonic := match[4]
	message := match[5]

	record := p.newRecord(timestamp, severityStr, message, raw)
	record.Facility = facility
	record.AddMetadata("mnemonic", mnemonic)
	record.AddMetadata("cisco_severity", severityStr)
	if hostname := extractHostname(raw); hostname != "" {
		record.Hostname = hostname
	}
	return record
}

func (p *CiscoIOSParser) parsePriorityFormat(raw string) *models.LogRecord {
	match := p.priorityPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	priorityStr := match[1]
	timestamp := parseCiscoTimestamp(match[2])
	facility := match[3]
	severityStr := match[4]
	mnemonic := match[5]
	message := match[6]

	// Cisco's own severity digit wins; the syslog priority is kept only
	// as metadata
	record := p.newRecord(timestamp, severityStr, message, raw)
	record.Facility = facility
	record.AddMetadata("mnemonic", mnemonic)
	record.AddMetadata("cisco_severity", severityStr)
	record.AddMetadata("syslog_priority", priorityStr)
	if hostname := extractHostname(raw); hostname != "" {
		record.Hostname = hostname
	}
	return record
}

func (p *CiscoIOSParser) parseSimpleFormat(raw string) *models.LogRecord {
	match := p.messageIDPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	facility := match[1]
	severityStr := match[2]
	mnemonic := match[3]

	var timestamp time.Time
	if tsMatch := p.timestampPattern.FindStringSubmatch(raw); tsMatch != nil {
		timestamp = parseCiscoTimestamp(tsMatch[1])
	} else {
		timestamp = time.Now()
	}

	// Message content is everything after the message id token
	message := raw
	token := "%" + facility + "-" + severityStr + "-" + mnemonic + ":"
	if idx := strings.Index(raw, token); idx >= 0 {
		if content := raw[idx+len(token):]; content != "" {
			message = cleanMessage(content)
		}
	}

	record := p.newRecord(timestamp, severityStr, message, raw)
	record.Facility = facility
	record.AddMetadata("mnemonic", mnemonic)
	record.AddMetadata("cisco_severity", severityStr)
	if hostname := extractHostname(raw); hostname != "" {
		record.Hostname = hostname
	}
	return record
}

func (p *CiscoIOSParser) newRecord(timestamp time.Time, severityStr, message, raw string) *models.LogRecord {
	digit, _ := strconv.Atoi(severityStr)
	record := models.NewLogRecord(mapCiscoSeverity(digit), message, p.deviceType)
	record.Timestamp = timestamp
	record.RawMessage = raw
	return record
}

// mapCiscoSeverity maps a Cisco severity digit onto the syslog scale.
// Unknown digits degrade to Info.
func mapCiscoSeverity(digit int) models.Severity {
	severity, err := models.SeverityFromNumber(digit)
	if err != nil {
		return models.SeverityInfo
	}
	return severity
}
