package hid

import (
	"errors"

	"github.com/karalabe/hid"
)

// ErrUnsupported is returned on platforms without hidapi support
var ErrUnsupported = errors.New("HID enumeration is not supported on this platform")

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// ListDevices returns a list of all available HID devices
func ListDevices() ([]DeviceInfo, error) {
	if !hid.Supported() {
		return nil, ErrUnsupported
	}

	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Path:         d.Path,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			SerialNumber: d.Serial,
			UsagePage:    d.UsagePage,
			Usage:        d.Usage,
		}
	}

	return result, nil
}
