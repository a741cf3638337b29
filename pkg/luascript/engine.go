// Package luascript embeds a Lua interpreter so end users can author new
// log parsers without recompiling the host. Each loaded script owns one
// interpreter instance; instances are never shared and are not safe for
// concurrent use. Script execution has no timeout or memory ceiling —
// unlike the compiled-plugin sandbox, a runaway script blocks its caller.
package luascript

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	lua "github.com/yuin/gopher-lua"

	"github.com/mariasu11/netlog/internal/metrics"
	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
)

// requiredFunctions are the entry points every parser script must define
var requiredFunctions = []string{"parse", "can_parse", "get_device_type", "get_parser_name"}

// Engine runs one parser script inside a dedicated Lua state. A script is
// either fully loaded (all required entry points present, top-level code
// executed cleanly) or unloaded with the failure recorded; there is no
// partially-loaded state.
type Engine struct {
	state      *lua.LState
	loaded     bool
	lastError  string
	scriptName string
	logger     hclog.Logger
	metrics    *metrics.Metrics
}

// NewEngine creates an engine with a fresh interpreter and the netlog host
// API registered
func NewEngine(logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	e := &Engine{logger: logger, metrics: metrics.GetMetrics()}
	e.initState()
	return e
}

func (e *Engine) initState() {
	e.state = lua.NewState()
	e.registerHostAPI()
}

// Close releases the interpreter. The engine cannot be used afterwards.
func (e *Engine) Close() {
	if e.state != nil {
		e.state.Close()
		e.state = nil
	}
	e.loaded = false
}

// Reset discards all script state and re-creates the interpreter
func (e *Engine) Reset() {
	e.Close()
	e.initState()
}

// Loaded reports whether a script is currently loaded
func (e *Engine) Loaded() bool {
	return e.loaded
}

// LastError returns the most recent load or parse failure message
func (e *Engine) LastError() string {
	return e.lastError
}

// ScriptName returns the name the loaded script was registered under
func (e *Engine) ScriptName() string {
	return e.scriptName
}

// LoadScript reads and loads a parser script from a file
func (e *Engine) LoadScript(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return e.fail(fmt.Sprintf("failed to open script file %s: %v", path, err))
	}
	return e.LoadScriptString(string(content), filepath.Base(path))
}

// LoadScriptString loads a parser script from inline text. The script's
// top-level code runs once to define its functions; afterwards the four
// required entry points must exist as callables. Any failure resets the
// interpreter so no partial script state persists.
func (e *Engine) LoadScriptString(content, name string) error {
	if e.state == nil {
		e.initState()
	}
	e.scriptName = name
	e.loaded = false

	if err := e.state.DoString(content); err != nil {
		e.Reset()
		return e.fail(fmt.Sprintf("failed to execute script %s: %v", name, err))
	}

	for _, fnName := range requiredFunctions {
		if _, ok := e.state.GetGlobal(fnName).(*lua.LFunction); !ok {
			e.Reset()
			return e.fail(fmt.Sprintf("required function %q not found in script %s", fnName, name))
		}
	}

	e.loaded = true
	e.lastError = ""
	return nil
}

// Parse calls the script's parse function. A nil return means the script
// found no match or errored; in the latter case LastError distinguishes.
// The produced record's DeviceType and RawMessage are always stamped by
// the host, never taken from the script's table.
func (e *Engine) Parse(raw string) *models.LogRecord {
	if !e.loaded {
		e.lastError = "no script loaded"
		return nil
	}

	result, err := e.call("parse", 1, lua.LString(raw))
	if err != nil {
		e.lastError = fmt.Sprintf("script parse function failed: %v", err)
		e.countScriptError()
		return nil
	}

	switch v := result.(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		record := recordFromTable(v)
		record.DeviceType = e.DeviceType()
		record.RawMessage = raw
		return record
	default:
		e.lastError = "parse function must return a table or nil"
		e.countScriptError()
		return nil
	}
}

// CanParse calls the script's can_parse function. Any script error or a
// non-boolean result is treated as false.
func (e *Engine) CanParse(raw string) bool {
	if !e.loaded {
		return false
	}

	result, err := e.call("can_parse", 1, lua.LString(raw))
	if err != nil {
		return false
	}
	b, ok := result.(lua.LBool)
	return ok && bool(b)
}

// DeviceType calls the script's get_device_type function, defaulting to
// Unknown on any failure
func (e *Engine) DeviceType() models.DeviceType {
	if !e.loaded {
		return models.DeviceTypeUnknown
	}

	result, err := e.call("get_device_type", 1)
	if err != nil {
		return models.DeviceTypeUnknown
	}
	if s, ok := result.(lua.LString); ok {
		if dt, err := models.ParseDeviceType(string(s)); err == nil {
			return dt
		}
	}
	return models.DeviceTypeUnknown
}

// ParserName calls the script's get_parser_name function, falling back to
// the script name
func (e *Engine) ParserName() string {
	if !e.loaded {
		return e.scriptName
	}

	result, err := e.call("get_parser_name", 1)
	if err != nil {
		return e.scriptName
	}
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return e.scriptName
}

// Version calls the optional get_version function, defaulting to "1.0.0"
func (e *Engine) Version() string {
	if !e.loaded {
		return parser.DefaultVersion
	}

	if _, ok := e.state.GetGlobal("get_version").(*lua.LFunction); !ok {
		return parser.DefaultVersion
	}
	result, err := e.call("get_version", 1)
	if err != nil {
		return parser.DefaultVersion
	}
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return parser.DefaultVersion
}

// SupportedPatterns calls the optional get_supported_patterns function
func (e *Engine) SupportedPatterns() []string {
	if !e.loaded {
		return nil
	}

	if _, ok := e.state.GetGlobal("get_supported_patterns").(*lua.LFunction); !ok {
		return nil
	}
	result, err := e.call("get_supported_patterns", 1)
	if err != nil {
		return nil
	}

	tbl, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}
	var patterns []string
	tbl.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			patterns = append(patterns, string(s))
		}
	})
	return patterns
}

// ValidateScript loads a script into a disposable interpreter and reports
// whether the load succeeds, retaining nothing
func ValidateScript(path string) error {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	if err := e.LoadScript(path); err != nil {
		return err
	}
	return nil
}

// call invokes a global script function with protection and returns its
// first result
func (e *Engine) call(fnName string, nret int, args ...lua.LValue) (lua.LValue, error) {
	fn, ok := e.state.GetGlobal(fnName).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("function %q is not defined", fnName)
	}

	if err := e.state.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}

	result := e.state.Get(-1)
	e.state.Pop(nret)
	return result, nil
}

func (e *Engine) fail(message string) error {
	e.lastError = message
	e.loaded = false
	e.countScriptError()
	e.logger.Error("lua engine error", "script", e.scriptName, "error", message)
	return fmt.Errorf("%s", message)
}

func (e *Engine) countScriptError() {
	e.metrics.ScriptErrors.With(prometheus.Labels{"script": e.scriptName}).Inc()
}
