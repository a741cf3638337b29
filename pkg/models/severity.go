package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity is the syslog severity scale, 0 (Emergency) through 7 (Debug).
type Severity int

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

// String returns the canonical lowercase name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityEmergency:
		return "emergency"
	case SeverityAlert:
		return "alert"
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNotice:
		return "notice"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Valid reports whether the severity is within the syslog 0-7 range
func (s Severity) Valid() bool {
	return s >= SeverityEmergency && s <= SeverityDebug
}

// ParseSeverity converts a severity string to a Severity value.
// Matching is case-insensitive and accepts common abbreviations as well as
// the numeric strings "0" through "7". Unrecognized strings are an error.
func ParseSeverity(str string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "emergency", "emerg":
		return SeverityEmergency, nil
	case "alert":
		return SeverityAlert, nil
	case "critical", "crit":
		return SeverityCritical, nil
	case "error", "err":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "notice", "note":
		return SeverityNotice, nil
	case "info", "informational":
		return SeverityInfo, nil
	case "debug":
		return SeverityDebug, nil
	}

	if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return SeverityFromNumber(n)
	}

	return SeverityInfo, fmt.Errorf("invalid severity string: %q", str)
}

// SeverityFromNumber converts a numeric syslog severity to a Severity value.
// Values outside [0,7] are rejected, not clamped.
func SeverityFromNumber(n int) (Severity, error) {
	s := Severity(n)
	if !s.Valid() {
		return SeverityInfo, fmt.Errorf("invalid severity number: %d", n)
	}
	return s, nil
}
