package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mariasu11/netlog/pkg/models"
)

// GenericSyslogParser handles plain syslog in RFC 3164 and RFC 5424 form,
// with a bare-priority fallback for lines that carry only a <priority> tag.
type GenericSyslogParser struct {
	rfc3164Pattern *regexp.Regexp
	rfc5424Pattern *regexp.Regexp
	priorityPattern *regexp.Regexp
}

// NewGenericSyslogParser creates a parser producing generic-syslog records
func NewGenericSyslogParser() *GenericSyslogParser {
	return &GenericSyslogParser{
		// <priority>timestamp hostname tag: message
		rfc3164Pattern: regexp.MustCompile(`<(\d+)>(\w+\s+\d+\s+\d+:\d+:\d+)\s+(\S+)\s+(.+?):\s*(.+)`),
		// <priority>version timestamp hostname app-name procid msgid structured-data msg
		rfc5424Pattern: regexp.MustCompile(`<(\d+)>(\d+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S*)\s*(.*)`),
		priorityPattern: regexp.MustCompile(`<(\d+)>(.*)`),
	}
}

// CanParse reports whether the line carries a syslog priority tag
func (p *GenericSyslogParser) CanParse(raw string) bool {
	return p.priorityPattern.MatchString(raw)
}

// Parse tries RFC 3164, then RFC 5424, then the bare-priority fallback
func (p *GenericSyslogParser) Parse(raw string) *models.LogRecord {
	if raw == "" {
		return nil
	}

	if record := p.parseRFC3164(raw); record != nil {
		return record
	}
	if record := p.parseRFC5424(raw); record != nil {
		return record
	}
	return p.parseBasicPriority(raw)
}

// ParseBatch applies Parse to each line, dropping unrecognized ones
func (p *GenericSyslogParser) ParseBatch(raws []string) []*models.LogRecord {
	return ParseBatch(p, raws)
}

// DeviceType returns the device family stamped on every produced record
func (p *GenericSyslogParser) DeviceType() models.DeviceType {
	return models.DeviceTypeGenericSyslog
}

// Name returns the parser name
func (p *GenericSyslogParser) Name() string {
	return "generic-syslog"
}

// Version returns the parser version
func (p *GenericSyslogParser) Version() string {
	return DefaultVersion
}

// SupportedPatterns returns documentation-facing pattern examples
func (p *GenericSyslogParser) SupportedPatterns() []string {
	return []string{
		`<\d+>\w+\s+\d+\s+\d+:\d+:\d+\s+\S+\s+.+?:\s*.+`,
		`<\d+>\d+\s+\S+\s+\S+\s+\S+\s+\S+\s+\S+\s+\S*\s*.*`,
		`<\d+>.*`,
	}
}

func (p *GenericSyslogParser) parseRFC3164(raw string) *models.LogRecord {
	match := p.rfc3164Pattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	priority, _ := strconv.Atoi(match[1])
	facility, severity := decomposePriority(priority)

	record := models.NewLogRecord(severity, match[5], models.DeviceTypeGenericSyslog)
	record.Timestamp = ParseTimestamp(match[2])
	record.Hostname = match[3]
	record.RawMessage = raw

	// The tag splits at '[' into process name and pid, e.g. "sshd[1234]"
	procName := match[4]
	if idx := strings.Index(procName, "["); idx >= 0 {
		if end := strings.Index(procName, "]"); end > idx {
			if pid, err := strconv.ParseUint(procName[idx+1:end], 10, 32); err == nil {
				record.SetProcessID(uint32(pid))
			}
		}
		procName = procName[:idx]
	}
	record.ProcessName = procName

	record.AddMetadata("facility_code", strconv.Itoa(facility))
	record.AddMetadata("syslog_priority", match[1])
	record.AddMetadata("format", "RFC3164")
	return record
}

func (p *GenericSyslogParser) parseRFC5424(raw string) *models.LogRecord {
	match := p.rfc5424Pattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	priority, _ := strconv.Atoi(match[1])
	facility, severity := decomposePriority(priority)

	record := models.NewLogRecord(severity, match[9], models.DeviceTypeGenericSyslog)
	record.Timestamp = ParseTimestamp(match[3])
	record.Hostname = match[4]
	record.ProcessName = match[5]
	record.RawMessage = raw

	// A proc-id of "-" means absent; non-numeric values are dropped
	if procID := match[6]; procID != "-" {
		if pid, err := strconv.ParseUint(procID, 10, 32); err == nil {
			record.SetProcessID(uint32(pid))
		}
	}

	record.AddMetadata("facility_code", strconv.Itoa(facility))
	record.AddMetadata("syslog_priority", match[1])
	record.AddMetadata("syslog_version", match[2])
	record.AddMetadata("message_id", match[7])
	record.AddMetadata("format", "RFC5424")
	if sd := match[8]; sd != "" && sd != "-" {
		record.AddMetadata("structured_data", sd)
	}
	return record
}

func (p *GenericSyslogParser) parseBasicPriority(raw string) *models.LogRecord {
	match := p.priorityPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	priority, _ := strconv.Atoi(match[1])
	facility, severity := decomposePriority(priority)

	record := models.NewLogRecord(severity, match[2], models.DeviceTypeGenericSyslog)
	record.RawMessage = raw
	record.AddMetadata("facility_code", strconv.Itoa(facility))
	record.AddMetadata("syslog_priority", match[1])
	record.AddMetadata("format", "basic_priority")
	return record
}

// decomposePriority splits a syslog priority into facility and severity.
// A malformed severity nibble degrades to Info rather than failing the parse.
func decomposePriority(priority int) (int, models.Severity) {
	facility := priority >> 3
	severity, err := models.SeverityFromNumber(priority & 0x07)
	if err != nil {
		severity = models.SeverityInfo
	}
	return facility, severity
}
