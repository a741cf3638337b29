package parser

import (
	"github.com/mariasu11/netlog/pkg/models"
)

// DefaultVersion is reported by parsers that do not declare their own version
const DefaultVersion = "1.0.0"

// Parser is the contract every log parser implements, whether it is compiled
// into the binary or loaded from a user-authored script at runtime.
type Parser interface {
	// CanParse is a cheap, side-effect-free hint that this parser may
	// handle the given line. It is used for routing and is intentionally
	// looser than Parse's grammar; a true result does not guarantee that
	// Parse will succeed on the same input.
	CanParse(raw string) bool

	// Parse converts one raw line into a normalized record. A nil result
	// means the parser does not recognize the format; it is not an error.
	// On success the record's RawMessage is the verbatim input and its
	// DeviceType is the parser's own device type.
	Parse(raw string) *models.LogRecord

	// ParseBatch applies Parse sequentially, dropping unrecognized lines
	ParseBatch(raws []string) []*models.LogRecord

	// DeviceType returns the device family this parser produces records for
	DeviceType() models.DeviceType

	// Name returns the parser name
	Name() string

	// Version returns the parser version
	Version() string

	// SupportedPatterns returns documentation-facing example patterns the
	// parser recognizes; it is not consulted by any matching logic
	SupportedPatterns() []string
}

// ParseBatch applies p.Parse to each line in order, keeping only matches.
// Lines the parser does not recognize are dropped silently; the only
// partial-failure signal is the reduced output count.
func ParseBatch(p Parser, raws []string) []*models.LogRecord {
	records := make([]*models.LogRecord, 0, len(raws))
	for _, raw := range raws {
		if record := p.Parse(raw); record != nil {
			records = append(records, record)
		}
	}
	return records
}
