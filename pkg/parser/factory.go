package parser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mariasu11/netlog/pkg/models"
)

// Creator builds a fresh parser instance for a device family
type Creator func() Parser

// Priority tiers for auto-detection. Cisco-family parsers outrank the
// generic tier, which outranks the generic-syslog fallback.
const (
	tierGenericSyslog = 1
	tierOther         = 2
	tierCiscoFamily   = 3
)

// Factory owns the native parser creators and selects a parser for an
// unlabeled message by priority tier. It is an explicit value constructed
// by the caller, not a process-wide singleton, so tests can use fresh
// factories.
type Factory struct {
	creators map[models.DeviceType]Creator
	order    []models.DeviceType
	logger   hclog.Logger
	mu       sync.RWMutex
}

// ParserInfo describes a registered parser for listing purposes
type ParserInfo struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	DeviceType        models.DeviceType `json:"-"`
	DeviceTypeName    string            `json:"device_type"`
	SupportedPatterns []string          `json:"supported_patterns,omitempty"`
}

// NewFactory creates a factory with the built-in parsers registered in a
// fixed order: IOS, IOS-XE, NX-OS, ASA, generic syslog.
func NewFactory(logger hclog.Logger) *Factory {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f := &Factory{
		creators: make(map[models.DeviceType]Creator),
		logger:   logger,
	}

	f.mustRegister(models.DeviceTypeCiscoIOS, func() Parser { return NewCiscoIOSParser() })
	f.mustRegister(models.DeviceTypeCiscoIOSXE, func() Parser { return NewCiscoIOSXEParser() })
	f.mustRegister(models.DeviceTypeCiscoNXOS, func() Parser { return NewCiscoNXOSParser() })
	f.mustRegister(models.DeviceTypeCiscoASA, func() Parser { return NewCiscoASAParser() })
	f.mustRegister(models.DeviceTypeGenericSyslog, func() Parser { return NewGenericSyslogParser() })

	return f
}

// NewEmptyFactory creates a factory with no parsers registered
func NewEmptyFactory(logger hclog.Logger) *Factory {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Factory{
		creators: make(map[models.DeviceType]Creator),
		logger:   logger,
	}
}

// Register adds a creator for a device family. Registering the same device
// type twice is rejected.
func (f *Factory) Register(deviceType models.DeviceType, creator Creator) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.creators[deviceType]; exists {
		return fmt.Errorf("parser for device type %s is already registered", deviceType)
	}

	f.creators[deviceType] = creator
	f.order = append(f.order, deviceType)
	f.logger.Debug("registered parser creator", "device_type", deviceType.String())
	return nil
}

// Unregister removes a creator. It reports whether one was present.
func (f *Factory) Unregister(deviceType models.DeviceType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.creators[deviceType]; !exists {
		return false
	}
	delete(f.creators, deviceType)
	for i, dt := range f.order {
		if dt == deviceType {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

// CreateParser builds a fresh parser for the device family, or nil if the
// family has no registered creator
func (f *Factory) CreateParser(deviceType models.DeviceType) Parser {
	f.mu.RLock()
	creator, exists := f.creators[deviceType]
	f.mu.RUnlock()

	if !exists {
		return nil
	}
	return creator()
}

// AutoDetect selects a parser for an unlabeled message. Every creator is
// invoked, candidates are filtered by CanParse and ranked by tier; ties
// within a tier break by registration order. Returns nil when no parser
// claims the message.
func (f *Factory) AutoDetect(raw string) Parser {
	f.mu.RLock()
	order := make([]models.DeviceType, len(f.order))
	copy(order, f.order)
	creators := make(map[models.DeviceType]Creator, len(f.creators))
	for dt, c := range f.creators {
		creators[dt] = c
	}
	f.mu.RUnlock()

	type candidate struct {
		parser Parser
		tier   int
	}

	var candidates []candidate
	for _, dt := range order {
		p := creators[dt]()
		if p != nil && p.CanParse(raw) {
			candidates = append(candidates, candidate{parser: p, tier: deviceTier(dt)})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Stable sort keeps registration order within a tier
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].tier > candidates[j].tier
	})

	return candidates[0].parser
}

// SupportedDeviceTypes returns the registered device families in
// registration order
func (f *Factory) SupportedDeviceTypes() []models.DeviceType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]models.DeviceType, len(f.order))
	copy(types, f.order)
	return types
}

// IsSupported reports whether a device family has a registered creator
func (f *Factory) IsSupported(deviceType models.DeviceType) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, exists := f.creators[deviceType]
	return exists
}

// ParserInfos returns descriptors for every registered parser
func (f *Factory) ParserInfos() []ParserInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()

	infos := make([]ParserInfo, 0, len(f.order))
	for _, dt := range f.order {
		p := f.creators[dt]()
		if p == nil {
			continue
		}
		infos = append(infos, ParserInfo{
			Name:              p.Name(),
			Version:           p.Version(),
			DeviceType:        dt,
			DeviceTypeName:    dt.String(),
			SupportedPatterns: p.SupportedPatterns(),
		})
	}
	return infos
}

func (f *Factory) mustRegister(deviceType models.DeviceType, creator Creator) {
	if err := f.Register(deviceType, creator); err != nil {
		panic(err)
	}
}

func deviceTier(deviceType models.DeviceType) int {
	switch deviceType {
	case models.DeviceTypeCiscoIOS, models.DeviceTypeCiscoIOSXE,
		models.DeviceTypeCiscoNXOS, models.DeviceTypeCiscoASA:
		return tierCiscoFamily
	case models.DeviceTypeGenericSyslog:
		return tierGenericSyslog
	default:
		return tierOther
	}
}
