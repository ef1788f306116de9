package deviceid

import (
	"fmt"
	"strings"
)

// Unknown stands in for any device property that could not be read.
const Unknown = "unknown"

// escaper keeps separators inside free text fields from merging two fields.
var escaper = strings.NewReplacer(`\`, `\\`, "-", `\-`, "[", `\[`, "]", `\]`)

// Identity holds the hardware attributes a keyboard reports about itself.
// Zero values mean the property could not be read.
type Identity struct {
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
	Serial       string
	Location     string
}

// Key derives the mapping key for the device. With useLocation the port the
// device is plugged into becomes part of the key, so moving the keyboard to
// another port makes it a new device.
func (i Identity) Key(useLocation bool) string {
	fields := []string{
		hex(i.VendorID),
		hex(i.ProductID),
		orUnknown(i.Manufacturer),
		orUnknown(i.Serial),
	}
	if useLocation {
		fields = append(fields, orUnknown(i.Location))
	}

	return fmt.Sprintf("%s-[%s]", orUnknown(i.Product), strings.Join(fields, "-"))
}

func hex(id uint16) string {
	if id == 0 {
		return Unknown
	}
	return fmt.Sprintf("%04x", id)
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return escaper.Replace(s)
}
