package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariasu11/netlog/pkg/models"
)

func TestCiscoIOSParseSimpleFormat(t *testing.T) {
	p := NewCiscoIOSParser()
	raw := "%LINEPROTO-5-UPDOWN: Line protocol on Interface GigabitEthernet0/1, changed state to down"

	assert.True(t, p.CanParse(raw))

	record := p.Parse(raw)
	require.NotNil(t, record)
	assert.Equal(t, "LINEPROTO", record.Facility)
	assert.Equal(t, models.SeverityNotice, record.Severity)
	assert.Contains(t, record.Message, "GigabitEthernet0/1")
	assert.Equal(t, raw, record.RawMessage)
	assert.Equal(t, models.DeviceTypeCiscoIOS, record.DeviceType)

	mnemonic, ok := record.GetMetadata("mnemonic")
	require.True(t, ok)
	assert.Equal(t, "UPDOWN", mnemonic)

	ciscoSev, ok := record.GetMetadata("cisco_severity")
	require.True(t, ok)
	assert.Equal(t, "5", ciscoSev)
}

func TestCiscoIOSParseStandardFormat(t *testing.T) {
	p := NewCiscoIOSParser()
	raw := "*Mar 1 18:46:11.012: %SYS-5-CONFIG_I: Configured from console by vty2"

	assert.True(t, p.CanParse(raw))

	record := p.Parse(raw)
	require.NotNil(t, record)
	assert.Equal(t, "SYS", record.Facility)
	assert.Equal(t, models.SeverityNotice, record.Severity)
	assert.Equal(t, "Configured from console by vty2", record.Message)

	// Timestamps without a year assume the current local year
	assert.Equal(t, time.Now().Year(), record.Timestamp.Year())
	assert.Equal(t, time.March, record.Timestamp.Month())
	assert.Equal(t, 18, record.Timestamp.Hour())
	assert.Equal(t, 46, record.Timestamp.Minute())
	assert.Equal(t, 11, record.Timestamp.Second())
}

func TestCiscoIOSParsePriorityFormat(t *testing.T) {
	p := NewCiscoIOSParser()
	raw := "<187>00:00:12: %LINK-3-UPDOWN: Interface FastEthernet0/0, changed state to up"

	record := p.Parse(raw)
	require.NotNil(t, record)
	assert.Equal(t, "LINK", record.Facility)

	// Cisco's severity digit wins over the syslog priority
	assert.Equal(t, models.SeverityError, record.Severity)

	priority, ok := record.GetMetadata("syslog_priority")
	require.True(t, ok)
	assert.Equal(t, "187", priority)
}

func TestCiscoIOSParseRejectsUnrelated(t *testing.T) {
	p := NewCiscoIOSParser()

	assert.False(t, p.CanParse("plain application log line"))
	assert.Nil(t, p.Parse("plain application log line"))
	assert.Nil(t, p.Parse(""))
}

func TestCiscoIOSParseBatch(t *testing.T) {
	p := NewCiscoIOSParser()
	lines := []string{
		"%SYS-5-CONFIG_I: Configured from console",
		"not a cisco line at all",
		"%LINK-3-UPDOWN: Interface Serial0/0, changed state to down",
	}

	records := p.ParseBatch(lines)

	// Unrecognized lines are dropped silently
	require.Len(t, records, 2)
	assert.Equal(t, "SYS", records[0].Facility)
	assert.Equal(t, "LINK", records[1].Facility)
}

func TestCiscoIOSXEVariant(t *testing.T) {
	p := NewCiscoIOSXEParser()

	assert.Equal(t, models.DeviceTypeCiscoIOSXE, p.DeviceType())
	assert.Equal(t, "cisco-ios-xe", p.Name())

	record := p.Parse("%SYS-6-LOGGINGHOST_STARTSTOP: Logging to host 10.0.0.1 started")
	require.NotNil(t, record)
	assert.Equal(t, models.DeviceTypeCiscoIOSXE, record.DeviceType)
}

func TestCiscoIOSDescriptors(t *testing.T) {
	p := NewCiscoIOSParser()
	assert.Equal(t, "cisco-ios", p.Name())
	assert.Equal(t, "1.0.0", p.Version())
	assert.NotEmpty(t, p.SupportedPatterns())
}
