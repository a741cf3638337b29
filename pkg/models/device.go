package models

import (
	"fmt"
	"strings"
)

// DeviceType identifies the log dialect a record was parsed from
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeCiscoIOS
	DeviceTypeCiscoIOSXE
	DeviceTypeCiscoNXOS
	DeviceTypeCiscoASA
	DeviceTypeGenericSyslog
	DeviceTypeCustom
)

// DeviceVendor identifies the device manufacturer family
type DeviceVendor int

const (
	VendorUnknown DeviceVendor = iota
	VendorCisco
	VendorJuniper
	VendorArista
	VendorHPE
	VendorGeneric
)

// String returns the canonical name of the device type
func (d DeviceType) String() string {
	switch d {
	case DeviceTypeCiscoIOS:
		return "cisco-ios"
	case DeviceTypeCiscoIOSXE:
		return "cisco-ios-xe"
	case DeviceTypeCiscoNXOS:
		return "cisco-nx-os"
	case DeviceTypeCiscoASA:
		return "cisco-asa"
	case DeviceTypeGenericSyslog:
		return "generic-syslog"
	case DeviceTypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// String returns the canonical name of the vendor
func (v DeviceVendor) String() string {
	switch v {
	case VendorCisco:
		return "cisco"
	case VendorJuniper:
		return "juniper"
	case VendorArista:
		return "arista"
	case VendorHPE:
		return "hpe"
	case VendorGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// ParseDeviceType converts a device type string to a DeviceType.
// Matching is case-insensitive and accepts vendor shorthand aliases
// ("ios", "nxos", "nx-os", "asa", "syslog"). Unrecognized strings are
// an error the caller must handle, never a silent default.
func ParseDeviceType(str string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "cisco-ios", "ios", "ciscoios":
		return DeviceTypeCiscoIOS, nil
	case "cisco-ios-xe", "ios-xe", "ciscoiosxe":
		return DeviceTypeCiscoIOSXE, nil
	case "cisco-nx-os", "nxos", "nx-os", "cisconxos":
		return DeviceTypeCiscoNXOS, nil
	case "cisco-asa", "asa", "ciscoasa":
		return DeviceTypeCiscoASA, nil
	case "generic-syslog", "syslog", "genericsyslog":
		return DeviceTypeGenericSyslog, nil
	case "custom":
		return DeviceTypeCustom, nil
	case "unknown":
		return DeviceTypeUnknown, nil
	}
	return DeviceTypeUnknown, fmt.Errorf("invalid device type string: %q", str)
}

// ParseDeviceVendor converts a vendor string to a DeviceVendor
func ParseDeviceVendor(str string) (DeviceVendor, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "cisco":
		return VendorCisco, nil
	case "juniper":
		return VendorJuniper, nil
	case "arista":
		return VendorArista, nil
	case "hpe", "hp":
		return VendorHPE, nil
	case "generic":
		return VendorGeneric, nil
	case "unknown":
		return VendorUnknown, nil
	}
	return VendorUnknown, fmt.Errorf("invalid device vendor string: %q", str)
}

// DefaultDeviceType returns the fallback device type hint for a vendor
func DefaultDeviceType(vendor DeviceVendor) DeviceType {
	switch vendor {
	case VendorCisco:
		return DeviceTypeCiscoIOS
	case VendorGeneric:
		return DeviceTypeGenericSyslog
	default:
		return DeviceTypeUnknown
	}
}
