package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayout is the wire format for record timestamps: ISO-8601 UTC
// with second precision.
const timestampLayout = "2006-01-02T15:04:05Z"

// LogRecord is the normalized output unit produced by any parser, native or
// scripted. A record is constructed by exactly one parser from one raw line
// and is treated as immutable once returned; the setters exist for staged
// construction during parsing and must not be used by consumers.
type LogRecord struct {
	// Timestamp is the time the event occurred, or the capture time when
	// the source line carried no parseable timestamp
	Timestamp time.Time

	// Severity is the syslog severity of the event
	Severity Severity

	// Message is the primary free-text content. A non-empty message is the
	// sole validity requirement for a record
	Message string

	// Facility is the vendor-specific subsystem tag, if any
	Facility string

	// Hostname is the originating host, if known
	Hostname string

	// ProcessName is the reporting process or application tag, if known
	ProcessName string

	// ProcessID is the reporting process id, if known
	ProcessID *uint32

	// DeviceType is the dialect of the parser that produced the record
	DeviceType DeviceType

	// RawMessage is the verbatim input line, always retained for audit
	RawMessage string

	// Metadata holds parser-specific extracted fields (e.g. "mnemonic")
	Metadata map[string]string
}

// NewLogRecord creates a record with the capture time as its timestamp
func NewLogRecord(severity Severity, message string, deviceType DeviceType) *LogRecord {
	return &LogRecord{
		Timestamp:  time.Now(),
		Severity:   severity,
		Message:    message,
		DeviceType: deviceType,
		Metadata:   make(map[string]string),
	}
}

// Valid reports whether the record meets the minimum validity rule
func (r *LogRecord) Valid() bool {
	return r.Message != ""
}

// AddMetadata sets a parser-specific extracted field
func (r *LogRecord) AddMetadata(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// GetMetadata returns a metadata value and whether it is present
func (r *LogRecord) GetMetadata(key string) (string, bool) {
	v, ok := r.Metadata[key]
	return v, ok
}

// SetProcessID sets the optional process id field
func (r *LogRecord) SetProcessID(pid uint32) {
	r.ProcessID = &pid
}

// Equal reports full structural equality, including metadata contents
func (r *LogRecord) Equal(other *LogRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.Timestamp.Equal(other.Timestamp) ||
		r.Severity != other.Severity ||
		r.Message != other.Message ||
		r.Facility != other.Facility ||
		r.Hostname != other.Hostname ||
		r.ProcessName != other.ProcessName ||
		r.DeviceType != other.DeviceType ||
		r.RawMessage != other.RawMessage {
		return false
	}
	if (r.ProcessID == nil) != (other.ProcessID == nil) {
		return false
	}
	if r.ProcessID != nil && *r.ProcessID != *other.ProcessID {
		return false
	}
	if len(r.Metadata) != len(other.Metadata) {
		return false
	}
	for k, v := range r.Metadata {
		if ov, ok := other.Metadata[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns a human-readable one-line rendering of the record
func (r *LogRecord) String() string {
	var b strings.Builder
	b.WriteString(r.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString(" [" + r.Severity.String() + "]")
	if r.Hostname != "" {
		b.WriteString(" " + r.Hostname)
	}
	if r.Facility != "" {
		b.WriteString(" " + r.Facility)
		if r.ProcessName != "" {
			b.WriteString("[" + r.ProcessName)
			if r.ProcessID != nil {
				fmt.Fprintf(&b, ":%d", *r.ProcessID)
			}
			b.WriteString("]")
		}
	}
	b.WriteString(": " + r.Message)
	return b.String()
}

// logRecordJSON is the wire representation with stable field names
type logRecordJSON struct {
	Timestamp   string            `json:"timestamp"`
	Severity    string            `json:"severity"`
	Message     string            `json:"message"`
	DeviceType  string            `json:"device_type"`
	Facility    string            `json:"facility,omitempty"`
	Hostname    string            `json:"hostname,omitempty"`
	ProcessName string            `json:"process_name,omitempty"`
	ProcessID   *uint32           `json:"process_id,omitempty"`
	RawMessage  string            `json:"raw_message,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler. Empty optional fields are omitted.
func (r *LogRecord) MarshalJSON() ([]byte, error) {
	wire := logRecordJSON{
		Timestamp:   r.Timestamp.UTC().Format(timestampLayout),
		Severity:    r.Severity.String(),
		Message:     r.Message,
		DeviceType:  r.DeviceType.String(),
		Facility:    r.Facility,
		Hostname:    r.Hostname,
		ProcessName: r.ProcessName,
		ProcessID:   r.ProcessID,
		RawMessage:  r.RawMessage,
	}
	if len(r.Metadata) > 0 {
		wire.Metadata = r.Metadata
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Decoding is deliberately
// permissive: unknown severity or device type strings fall back to
// Info/Unknown instead of failing, and a malformed timestamp is left zero.
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var wire logRecordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.Timestamp != "" {
		if ts, err := time.Parse(timestampLayout, wire.Timestamp); err == nil {
			r.Timestamp = ts
		}
	}

	sev, err := ParseSeverity(wire.Severity)
	if err != nil {
		sev = SeverityInfo
	}
	r.Severity = sev

	dt, err := ParseDeviceType(wire.DeviceType)
	if err != nil {
		dt = DeviceTypeUnknown
	}
	r.DeviceType = dt

	r.Message = wire.Message
	r.Facility = wire.Facility
	r.Hostname = wire.Hostname
	r.ProcessName = wire.ProcessName
	r.ProcessID = wire.ProcessID
	r.RawMessage = wire.RawMessage
	r.Metadata = wire.Metadata
	return nil
}
