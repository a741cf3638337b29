package luascript

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
)

// Parser adapts a script engine to the parser contract so a user-authored
// script behaves identically to a compiled parser. The adapter keeps the
// original script source so ReloadScript can re-run the load in place.
type Parser struct {
	engine     *Engine
	scriptPath string
	scriptText string
	scriptName string
	fromFile   bool
}

// NewParserFromFile loads a parser script from a file. On load failure the
// returned parser is still usable for inspection (LastError, ReloadScript)
// but reports IsValid() == false.
func NewParserFromFile(path string, logger hclog.Logger) (*Parser, error) {
	p := &Parser{
		engine:     NewEngine(logger),
		scriptPath: path,
		scriptName: filepath.Base(path),
		fromFile:   true,
	}
	if err := p.engine.LoadScript(path); err != nil {
		return p, err
	}
	return p, nil
}

// NewParserFromString loads a parser script from inline text
func NewParserFromString(content, name string, logger hclog.Logger) (*Parser, error) {
	p := &Parser{
		engine:     NewEngine(logger),
		scriptText: content,
		scriptName: name,
	}
	if err := p.engine.LoadScriptString(content, name); err != nil {
		return p, err
	}
	return p, nil
}

// IsValid reports whether the underlying script is currently loaded
func (p *Parser) IsValid() bool {
	return p.engine.Loaded()
}

// LastError returns the most recent load or parse failure message
func (p *Parser) LastError() string {
	return p.engine.LastError()
}

// ReloadScript re-runs the original load, replacing the engine state
func (p *Parser) ReloadScript() error {
	p.engine.Reset()
	if p.fromFile {
		return p.engine.LoadScript(p.scriptPath)
	}
	return p.engine.LoadScriptString(p.scriptText, p.scriptName)
}

// Close releases the underlying interpreter
func (p *Parser) Close() {
	p.engine.Close()
}

// CanParse delegates to the script, fail-closed
func (p *Parser) CanParse(raw string) bool {
	if !p.IsValid() {
		return false
	}
	return p.engine.CanParse(raw)
}

// Parse delegates to the script
func (p *Parser) Parse(raw string) *models.LogRecord {
	if !p.IsValid() {
		return nil
	}
	return p.engine.Parse(raw)
}

// ParseBatch applies Parse to each line, dropping unrecognized ones
func (p *Parser) ParseBatch(raws []string) []*models.LogRecord {
	return parser.ParseBatch(p, raws)
}

// DeviceType returns the script's declared device family
func (p *Parser) DeviceType() models.DeviceType {
	return p.engine.DeviceType()
}

// Name returns the script's declared parser name, or the script file name
// when the script is not loaded
func (p *Parser) Name() string {
	if !p.IsValid() {
		return p.scriptName
	}
	return p.engine.ParserName()
}

// Version returns the script's declared version, defaulting to "1.0.0"
func (p *Parser) Version() string {
	return p.engine.Version()
}

// SupportedPatterns returns the script's declared example patterns
func (p *Parser) SupportedPatterns() []string {
	return p.engine.SupportedPatterns()
}

// LoadDirectory loads every *.lua file in dir into the registry under its
// parser name. A non-empty enabled list restricts loading to scripts whose
// base file name, without the .lua extension, appears in it. Scripts that
// fail to load are skipped and logged; they do not abort the rest of the
// directory.
func LoadDirectory(registry *parser.Registry, dir string, enabled []string, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var enabledSet map[string]bool
	if len(enabled) > 0 {
		enabledSet = make(map[string]bool, len(enabled))
		for _, name := range enabled {
			enabledSet[strings.TrimSpace(name)] = true
		}
	}

	scripts, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return fmt.Errorf("failed to list scripts in %s: %w", dir, err)
	}

	for _, path := range scripts {
		base := strings.TrimSuffix(filepath.Base(path), ".lua")
		if enabledSet != nil && !enabledSet[base] {
			logger.Debug("skipping disabled parser script", "path", path)
			continue
		}
		p, err := NewParserFromFile(path, logger)
		if err != nil {
			logger.Error("failed to load parser script", "path", path, "error", err)
			continue
		}
		if err := registry.Register(p.Name(), p); err != nil {
			logger.Error("failed to register parser script", "path", path, "error", err)
			p.Close()
		}
	}
	return nil
}
