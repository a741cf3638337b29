package parser

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Registry is a name-to-parser map for parsers loaded at runtime, typically
// scripted ones. The registry exclusively owns its entries. Lookup walks
// entries in registration order; the first parser whose CanParse accepts
// the message wins.
type Registry struct {
	parsers map[string]Parser
	names   []string
	logger  hclog.Logger
	mu      sync.RWMutex
}

// NewRegistry creates an empty parser registry
func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		parsers: make(map[string]Parser),
		logger:  logger,
	}
}

// Register adds a parser under a name. Re-registering an existing name is
// rejected rather than silently overwriting.
func (r *Registry) Register(name string, p Parser) error {
	if name == "" {
		return fmt.Errorf("parser name must not be empty")
	}
	if p == nil {
		return fmt.Errorf("parser %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("parser %q is already registered", name)
	}

	r.parsers[name] = p
	r.names = append(r.names, name)
	r.logger.Info("registered parser", "name", name, "device_type", p.DeviceType().String(), "version", p.Version())
	return nil
}

// Unregister removes a parser by name, reporting whether it was present
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[name]; !exists {
		return false
	}
	delete(r.parsers, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a parser by name
func (r *Registry) Get(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.parsers[name]
	if !exists {
		return nil, fmt.Errorf("parser %q not found", name)
	}
	return p, nil
}

// Names returns the registered parser names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of registered parsers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parsers)
}

// FindParserForMessage returns the first registered parser, in registration
// order, whose CanParse accepts the message, or nil when none does
func (r *Registry) FindParserForMessage(raw string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.names {
		if p := r.parsers[name]; p.CanParse(raw) {
			return p
		}
	}
	return nil
}

// ParserInfos returns descriptors for every registered parser in
// registration order
func (r *Registry) ParserInfos() []ParserInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ParserInfo, 0, len(r.names))
	for _, name := range r.names {
		p := r.parsers[name]
		infos = append(infos, ParserInfo{
			Name:              p.Name(),
			Version:           p.Version(),
			DeviceType:        p.DeviceType(),
			DeviceTypeName:    p.DeviceType().String(),
			SupportedPatterns: p.SupportedPatterns(),
		})
	}
	return infos
}
