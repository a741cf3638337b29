package luascript

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/mariasu11/netlog/pkg/models"
)

// recordFromTable converts the table returned by a script's parse function
// into a LogRecord. Any recognized key that is absent or of the wrong type
// keeps the record's default — marshaling never fails a parse on a
// malformed field. DeviceType and RawMessage are stamped by the caller.
func recordFromTable(tbl *lua.LTable) *models.LogRecord {
	record := models.NewLogRecord(models.SeverityInfo, "", models.DeviceTypeUnknown)

	if n, ok := tbl.RawGetString("timestamp").(lua.LNumber); ok {
		record.Timestamp = time.Unix(int64(n), 0)
	}

	switch v := tbl.RawGetString("severity").(type) {
	case lua.LString:
		if severity, err := models.ParseSeverity(string(v)); err == nil {
			record.Severity = severity
		}
	case lua.LNumber:
		if severity, err := models.SeverityFromNumber(int(v)); err == nil {
			record.Severity = severity
		}
	}

	if s, ok := tbl.RawGetString("message").(lua.LString); ok {
		record.Message = string(s)
	}
	if s, ok := tbl.RawGetString("facility").(lua.LString); ok {
		record.Facility = string(s)
	}
	if s, ok := tbl.RawGetString("hostname").(lua.LString); ok {
		record.Hostname = string(s)
	}
	if s, ok := tbl.RawGetString("process_name").(lua.LString); ok {
		record.ProcessName = string(s)
	}
	if n, ok := tbl.RawGetString("process_id").(lua.LNumber); ok && n >= 0 {
		record.SetProcessID(uint32(n))
	}

	if meta, ok := tbl.RawGetString("metadata").(*lua.LTable); ok {
		meta.ForEach(func(k, v lua.LValue) {
			key, keyOK := k.(lua.LString)
			value, valueOK := v.(lua.LString)
			if keyOK && valueOK {
				record.AddMetadata(string(key), string(value))
			}
		})
	}

	return record
}
