package parser

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariasu11/netlog/pkg/models"
)

func TestFactoryBuiltins(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	expected := []models.DeviceType{
		models.DeviceTypeCiscoIOS,
		models.DeviceTypeCiscoIOSXE,
		models.DeviceTypeCiscoNXOS,
		models.DeviceTypeCiscoASA,
		models.DeviceTypeGenericSyslog,
	}
	assert.Equal(t, expected, f.SupportedDeviceTypes())

	for _, dt := range expected {
		assert.True(t, f.IsSupported(dt))
		require.NotNil(t, f.CreateParser(dt))
	}

	assert.False(t, f.IsSupported(models.DeviceTypeCustom))
	assert.Nil(t, f.CreateParser(models.DeviceTypeCustom))
}

func TestFactoryRejectsDuplicateRegistration(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	err := f.Register(models.DeviceTypeCiscoIOS, func() Parser { return NewCiscoIOSParser() })
	assert.Error(t, err)
}

func TestFactoryUnregister(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	assert.True(t, f.Unregister(models.DeviceTypeCiscoASA))
	assert.False(t, f.Unregister(models.DeviceTypeCiscoASA))
	assert.False(t, f.IsSupported(models.DeviceTypeCiscoASA))
}

func TestAutoDetectPrefersCiscoOverGeneric(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	// Both the IOS parser and the generic syslog parser claim this line;
	// the Cisco tier must win
	raw := "<187>00:00:12: %LINK-3-UPDOWN: Interface FastEthernet0/0, changed state to up"

	ios := NewCiscoIOSParser()
	syslog := NewGenericSyslogParser()
	require.True(t, ios.CanParse(raw))
	require.True(t, syslog.CanParse(raw))

	selected := f.AutoDetect(raw)
	require.NotNil(t, selected)
	assert.Equal(t, models.DeviceTypeCiscoIOS, selected.DeviceType())
}

func TestAutoDetectFallsBackToGenericSyslog(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	selected := f.AutoDetect("<34>Jan 15 10:30:45 server01 sshd[1234]: Accepted password for admin")
	require.NotNil(t, selected)
	assert.Equal(t, models.DeviceTypeGenericSyslog, selected.DeviceType())
}

func TestAutoDetectNoMatch(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())
	assert.Nil(t, f.AutoDetect("completely unstructured application output"))
}

func TestAutoDetectTieBreaksByRegistrationOrder(t *testing.T) {
	f := NewEmptyFactory(hclog.NewNullLogger())

	// Two parsers in the same tier that both match; first registered wins
	require.NoError(t, f.Register(models.DeviceTypeCiscoNXOS, func() Parser { return NewCiscoNXOSParser() }))
	require.NoError(t, f.Register(models.DeviceTypeCiscoIOS, func() Parser { return NewCiscoIOSParser() }))

	// Matches both NX-OS (%PLATFORM- detection) and IOS (message id token)
	raw := "%PLATFORM-2-MOD_PWRUP: Module powered up"
	selected := f.AutoDetect(raw)
	require.NotNil(t, selected)
	assert.Equal(t, models.DeviceTypeCiscoNXOS, selected.DeviceType())
}

func TestFactoryParserInfos(t *testing.T) {
	f := NewFactory(hclog.NewNullLogger())

	infos := f.ParserInfos()
	require.Len(t, infos, 5)
	assert.Equal(t, "cisco-ios", infos[0].Name)
	assert.Equal(t, "generic-syslog", infos[4].Name)
	assert.Equal(t, "1.0.0", infos[0].Version)
}
