package luascript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
)

func TestScriptParserContract(t *testing.T) {
	p, err := NewParserFromString(testScript, "inline.lua", hclog.NewNullLogger())
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.IsValid())
	assert.Equal(t, "test-parser", p.Name())
	assert.Equal(t, "2.1.0", p.Version())
	assert.Equal(t, models.DeviceTypeCiscoIOS, p.DeviceType())
	assert.True(t, p.CanParse("a TEST line"))
	assert.False(t, p.CanParse("something else"))

	record := p.Parse("a TEST line")
	require.NotNil(t, record)
	assert.Equal(t, models.DeviceTypeCiscoIOS, record.DeviceType)
}

func TestScriptParserBatchDropsUnrecognized(t *testing.T) {
	p, err := NewParserFromString(testScript, "inline.lua", hclog.NewNullLogger())
	require.NoError(t, err)
	defer p.Close()

	records := p.ParseBatch([]string{"TEST one", "skip me", "TEST two"})
	require.Len(t, records, 2)
	assert.Equal(t, "Parsed: TEST one", records[0].Message)
	assert.Equal(t, "Parsed: TEST two", records[1].Message)
}

func TestScriptParserInvalidScriptStaysInspectable(t *testing.T) {
	p, err := NewParserFromString("function parse(raw) return nil end", "partial.lua", hclog.NewNullLogger())
	require.Error(t, err)
	require.NotNil(t, p)
	defer p.Close()

	assert.False(t, p.IsValid())
	assert.NotEmpty(t, p.LastError())
	assert.Equal(t, "partial.lua", p.Name())
	assert.False(t, p.CanParse("anything"))
	assert.Nil(t, p.Parse("anything"))
	assert.Equal(t, models.DeviceTypeUnknown, p.DeviceType())
	assert.Equal(t, parser.DefaultVersion, p.Version())
}

func TestScriptParserReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reload.lua")
	require.NoError(t, os.WriteFile(path, []byte("broken (("), 0o644))

	p, err := NewParserFromFile(path, hclog.NewNullLogger())
	require.Error(t, err)
	assert.False(t, p.IsValid())

	// Fix the script on disk and reload in place
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0o644))
	require.NoError(t, p.ReloadScript())
	defer p.Close()

	assert.True(t, p.IsValid())
	assert.Equal(t, "test-parser", p.Name())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.lua"), []byte(testScript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("((("), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a script"), 0o644))

	registry := parser.NewRegistry(hclog.NewNullLogger())
	require.NoError(t, LoadDirectory(registry, dir, nil, hclog.NewNullLogger()))

	// The broken script is skipped, the text file ignored
	assert.Equal(t, []string{"test-parser"}, registry.Names())

	found := registry.FindParserForMessage("a TEST line")
	require.NotNil(t, found)
	assert.Equal(t, "test-parser", found.Name())
}

func TestLoadDirectoryHonorsEnabledList(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.lua"), []byte(testScript), 0o644))

	other := `
function get_parser_name() return "other-parser" end
function get_device_type() return "custom" end
function can_parse(raw) return false end
function parse(raw) return nil end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.lua"), []byte(other), 0o644))

	// Only scripts named in the enabled list are loaded
	registry := parser.NewRegistry(hclog.NewNullLogger())
	require.NoError(t, LoadDirectory(registry, dir, []string{"good"}, hclog.NewNullLogger()))
	assert.Equal(t, []string{"test-parser"}, registry.Names())
}

func TestLoadDirectoryEmpty(t *testing.T) {
	registry := parser.NewRegistry(hclog.NewNullLogger())
	require.NoError(t, LoadDirectory(registry, t.TempDir(), nil, hclog.NewNullLogger()))
	assert.Zero(t, registry.Len())
}
