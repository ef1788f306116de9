package inputdev

import (
	"codeberg.org/miketth/kbisw/pkg/deviceid"
	"github.com/jochenvg/go-udev"
	"path/filepath"
)

const sysClassInput = "/sys/class/input"

// enrichFromUdev fills in manufacturer and serial from the USB device the
// input node belongs to. evdev has no manufacturer and often no serial.
func enrichFromUdev(path string, id *deviceid.Identity) {
	u := udev.Udev{}

	dev := u.NewDeviceFromSyspath(filepath.Join(sysClassInput, filepath.Base(path)))
	if dev == nil {
		return
	}

	usb := dev.ParentWithSubsystemDevtype("usb", "usb_device")
	if usb == nil {
		return
	}

	if id.Manufacturer == "" {
		id.Manufacturer = usb.SysattrValue("manufacturer")
	}
	if id.Serial == "" {
		id.Serial = usb.SysattrValue("serial")
	}
}
