package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordJSONRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	pid := uint32(1234)

	original := &LogRecord{
		Timestamp:   ts,
		Severity:    SeverityNotice,
		Message:     "Interface GigabitEthernet0/1 changed state to down",
		Facility:    "LINEPROTO",
		Hostname:    "router1",
		ProcessName: "linkd",
		ProcessID:   &pid,
		DeviceType:  DeviceTypeCiscoIOS,
		RawMessage:  "%LINEPROTO-5-UPDOWN: ...",
		Metadata: map[string]string{
			"mnemonic":       "UPDOWN",
			"cisco_severity": "5",
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded LogRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, original.Equal(&decoded))
}

func TestLogRecordJSONOmitsEmptyOptionals(t *testing.T) {
	record := NewLogRecord(SeverityInfo, "hello", DeviceTypeGenericSyslog)

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Contains(t, fields, "timestamp")
	assert.Contains(t, fields, "severity")
	assert.Contains(t, fields, "message")
	assert.Contains(t, fields, "device_type")
	assert.NotContains(t, fields, "facility")
	assert.NotContains(t, fields, "hostname")
	assert.NotContains(t, fields, "process_name")
	assert.NotContains(t, fields, "process_id")
	assert.NotContains(t, fields, "metadata")
}

func TestLogRecordJSONTimestampFormat(t *testing.T) {
	record := &LogRecord{
		Timestamp:  time.Date(2024, 3, 1, 23, 59, 59, 123456789, time.UTC),
		Severity:   SeverityDebug,
		Message:    "m",
		DeviceType: DeviceTypeCustom,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))

	// Second precision, UTC, ISO-8601
	assert.Equal(t, "2024-03-01T23:59:59Z", fields["timestamp"])
}

func TestLogRecordDecodeIsPermissive(t *testing.T) {
	// Unknown severity and device type must not fail the decode
	payload := `{"timestamp":"not-a-time","severity":"chartreuse","message":"m","device_type":"toaster"}`

	var decoded LogRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))

	assert.Equal(t, SeverityInfo, decoded.Severity)
	assert.Equal(t, DeviceTypeUnknown, decoded.DeviceType)
	assert.Equal(t, "m", decoded.Message)
	assert.True(t, decoded.Timestamp.IsZero())
}

func TestLogRecordValid(t *testing.T) {
	record := NewLogRecord(SeverityInfo, "", DeviceTypeUnknown)
	assert.False(t, record.Valid())

	record.Message = "something happened"
	assert.True(t, record.Valid())
}

func TestLogRecordEqual(t *testing.T) {
	a := NewLogRecord(SeverityError, "boom", DeviceTypeCiscoASA)
	b := &LogRecord{
		Timestamp:  a.Timestamp,
		Severity:   SeverityError,
		Message:    "boom",
		DeviceType: DeviceTypeCiscoASA,
		Metadata:   map[string]string{},
	}
	assert.True(t, a.Equal(b))

	b.AddMetadata("k", "v")
	assert.False(t, a.Equal(b))

	a.AddMetadata("k", "v")
	assert.True(t, a.Equal(b))

	b.SetProcessID(7)
	assert.False(t, a.Equal(b))
}
