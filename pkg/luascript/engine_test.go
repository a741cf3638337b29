package luascript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariasu11/netlog/internal/metrics"
	"github.com/mariasu11/netlog/pkg/models"
)

const testScript = `
function get_parser_name()
    return "test-parser"
end

function get_version()
    return "2.1.0"
end

function get_device_type()
    return "cisco-ios"
end

function can_parse(raw_message)
    return string.find(raw_message, "TEST") ~= nil
end

function parse(raw_message)
    if not can_parse(raw_message) then
        return nil
    end

    local entry = netlog.create_log_entry()
    entry.timestamp = netlog.parse_timestamp("2024-01-15 10:30:45")
    entry.severity = "warning"
    entry.facility = "TEST"
    entry.message = "Parsed: " .. raw_message
    entry.hostname = "testhost"
    entry.process_name = "testproc"
    entry.process_id = 4242
    entry.metadata = {
        event_type = "test_event",
    }
    return entry
end

function get_supported_patterns()
    return {"TEST.*", ".*TEST"}
end
`

func TestEngineLoadScriptString(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	require.NoError(t, e.LoadScriptString(testScript, "test.lua"))
	assert.True(t, e.Loaded())
	assert.Empty(t, e.LastError())
	assert.Equal(t, "test-parser", e.ParserName())
	assert.Equal(t, "2.1.0", e.Version())
	assert.Equal(t, models.DeviceTypeCiscoIOS, e.DeviceType())
	assert.Equal(t, []string{"TEST.*", ".*TEST"}, e.SupportedPatterns())
}

func TestEngineParse(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()
	require.NoError(t, e.LoadScriptString(testScript, "test.lua"))

	raw := "a TEST line"
	record := e.Parse(raw)
	require.NotNil(t, record)

	assert.Equal(t, "Parsed: a TEST line", record.Message)
	assert.Equal(t, models.SeverityWarning, record.Severity)
	assert.Equal(t, "TEST", record.Facility)
	assert.Equal(t, "testhost", record.Hostname)
	assert.Equal(t, "testproc", record.ProcessName)
	require.NotNil(t, record.ProcessID)
	assert.Equal(t, uint32(4242), *record.ProcessID)

	// The host stamps device type and raw message, never the script table
	assert.Equal(t, models.DeviceTypeCiscoIOS, record.DeviceType)
	assert.Equal(t, raw, record.RawMessage)

	eventType, ok := record.GetMetadata("event_type")
	require.True(t, ok)
	assert.Equal(t, "test_event", eventType)

	assert.Equal(t, 2024, record.Timestamp.Year())
}

func TestEngineParseNoMatch(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()
	require.NoError(t, e.LoadScriptString(testScript, "test.lua"))

	assert.Nil(t, e.Parse("no marker here"))
	assert.False(t, e.CanParse("no marker here"))
	assert.True(t, e.CanParse("has TEST marker"))
}

func TestEngineMissingRequiredFunction(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function parse(raw) return nil end
function can_parse(raw) return false end
function get_device_type() return "custom" end
`
	err := e.LoadScriptString(script, "incomplete.lua")
	require.Error(t, err)
	assert.False(t, e.Loaded())
	assert.Contains(t, e.LastError(), "get_parser_name")
}

func TestEngineSyntaxError(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	err := e.LoadScriptString("function broken(", "broken.lua")
	require.Error(t, err)
	assert.False(t, e.Loaded())
	assert.NotEmpty(t, e.LastError())
}

func TestEngineTopLevelRuntimeError(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	err := e.LoadScriptString(`error("boom at load time")`, "boom.lua")
	require.Error(t, err)
	assert.False(t, e.Loaded())
}

func TestEngineParseRuntimeErrorSurfacesAsNil(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw) return true end
function parse(raw) error("parse exploded") end
`
	require.NoError(t, e.LoadScriptString(script, "explode.lua"))

	assert.Nil(t, e.Parse("anything"))
	assert.Contains(t, e.LastError(), "parse exploded")
}

func TestEngineParseNonTableResult(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw) return true end
function parse(raw) return 42 end
`
	require.NoError(t, e.LoadScriptString(script, "badreturn.lua"))

	assert.Nil(t, e.Parse("anything"))
	assert.Contains(t, e.LastError(), "table or nil")
}

func TestEngineCanParseFailClosed(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw)
    if raw == "boom" then error("oops") end
    return "not a boolean"
end
function parse(raw) return nil end
`
	require.NoError(t, e.LoadScriptString(script, "failclosed.lua"))

	// Script errors and non-boolean results are both false
	assert.False(t, e.CanParse("boom"))
	assert.False(t, e.CanParse("anything"))
}

func TestEngineMarshalingKeepsDefaultsForBadFields(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw) return true end
function parse(raw)
    return {
        message = "ok",
        severity = {},          -- wrong type, keeps Info
        timestamp = "tuesday",  -- wrong type, keeps capture time
        process_id = "nan",     -- wrong type, stays absent
        metadata = { good = "v", bad = 7 },
    }
end
`
	require.NoError(t, e.LoadScriptString(script, "sloppy.lua"))

	record := e.Parse("x")
	require.NotNil(t, record)
	assert.Equal(t, "ok", record.Message)
	assert.Equal(t, models.SeverityInfo, record.Severity)
	assert.Nil(t, record.ProcessID)
	assert.False(t, record.Timestamp.IsZero())

	v, ok := record.GetMetadata("good")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	_, ok = record.GetMetadata("bad")
	assert.False(t, ok, "non-string metadata values are dropped")
}

func TestEngineHostHelpers(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw) return true end
function parse(raw)
    netlog.log_debug("dbg")
    netlog.log_info("inf")
    netlog.log_warn("wrn")
    netlog.log_error("err")
    return {
        message = netlog.parse_device_type("nxos"),
        severity = netlog.parse_severity("err"),
        timestamp = netlog.parse_timestamp("garbage"),
        metadata = { bogus_severity = tostring(netlog.parse_severity("bogus")) },
    }
end
`
	require.NoError(t, e.LoadScriptString(script, "helpers.lua"))

	record := e.Parse("x")
	require.NotNil(t, record)
	assert.Equal(t, "cisco-nx-os", record.Message)
	assert.Equal(t, models.SeverityError, record.Severity)
	// parse_timestamp falls back to capture time on garbage input
	assert.False(t, record.Timestamp.IsZero())
	// parse_severity defaults to Info (6) on failure
	bogus, _ := record.GetMetadata("bogus_severity")
	assert.Equal(t, "6", bogus)
}

func TestEngineCountsScriptErrors(t *testing.T) {
	e := NewEngine(hclog.NewNullLogger())
	defer e.Close()

	script := `
function get_parser_name() return "p" end
function get_device_type() return "custom" end
function can_parse(raw) return true end
function parse(raw) error("runtime failure") end
`
	require.NoError(t, e.LoadScriptString(script, "counted.lua"))

	counter := metrics.GetMetrics().ScriptErrors.With(prometheus.Labels{"script": "counted.lua"})
	before := testutil.ToFloat64(counter)

	assert.Nil(t, e.Parse("anything"))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestValidateScript(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.lua")
	require.NoError(t, os.WriteFile(good, []byte(testScript), 0o644))
	assert.NoError(t, ValidateScript(good))

	bad := filepath.Join(dir, "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte("not lua ((("), 0o644))
	assert.Error(t, ValidateScript(bad))

	assert.Error(t, ValidateScript(filepath.Join(dir, "missing.lua")))
}
