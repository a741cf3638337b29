package luascript

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
)

// registerHostAPI installs the netlog namespace scripts call into. The
// helpers are deliberately permissive: parse failures substitute a safe
// default instead of raising, because the host must stay robust against
// arbitrary script input.
func (e *Engine) registerHostAPI() {
	api := e.state.NewTable()

	e.state.SetField(api, "create_log_entry", e.state.NewFunction(func(L *lua.LState) int {
		L.Push(L.NewTable())
		return 1
	}))

	e.state.SetField(api, "parse_timestamp", e.state.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		L.Push(lua.LNumber(parser.ParseTimestamp(text).Unix()))
		return 1
	}))

	e.state.SetField(api, "parse_severity", e.state.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		severity, err := models.ParseSeverity(text)
		if err != nil {
			severity = models.SeverityInfo
		}
		L.Push(lua.LNumber(severity))
		return 1
	}))

	e.state.SetField(api, "parse_device_type", e.state.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		deviceType, err := models.ParseDeviceType(text)
		if err != nil {
			deviceType = models.DeviceTypeUnknown
		}
		L.Push(lua.LString(deviceType.String()))
		return 1
	}))

	e.state.SetField(api, "log_debug", e.state.NewFunction(func(L *lua.LState) int {
		e.logger.Debug(L.CheckString(1), "script", e.scriptName)
		return 0
	}))

	e.state.SetField(api, "log_info", e.state.NewFunction(func(L *lua.LState) int {
		e.logger.Info(L.CheckString(1), "script", e.scriptName)
		return 0
	}))

	e.state.SetField(api, "log_warn", e.state.NewFunction(func(L *lua.LState) int {
		e.logger.Warn(L.CheckString(1), "script", e.scriptName)
		return 0
	}))

	e.state.SetField(api, "log_error", e.state.NewFunction(func(L *lua.LState) int {
		e.logger.Error(L.CheckString(1), "script", e.scriptName)
		return 0
	}))

	e.state.SetGlobal("netlog", api)
}
