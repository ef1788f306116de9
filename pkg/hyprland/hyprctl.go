package hyprland

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
)

// Hyprctl sends requests to the Hyprland control socket, one connection per
// request.
type Hyprctl struct {
	socketPath string
}

func NewHyprctl() (*Hyprctl, error) {
	socketPath, err := getSocketPath(ctlSocket)
	if err != nil {
		return nil, fmt.Errorf("get socket path: %w", err)
	}

	return &Hyprctl{socketPath: socketPath}, nil
}

type Keyboard struct {
	Name         string
	Layouts      []string
	Variants     []string
	ActiveKeymap string
	Main         bool
}

type keyboard struct {
	Name         string `json:"name"`
	Layout       string `json:"layout"`
	Variant      string `json:"variant"`
	Options      string `json:"options"`
	ActiveKeymap string `json:"active_keymap"`
	Main         bool   `json:"main"`
}

type devices struct {
	Keyboards []keyboard `json:"keyboards"`
}

func (k keyboard) ToKeyboard() Keyboard {
	return Keyboard{
		Name:         k.Name,
		Layouts:      splitList(k.Layout),
		Variants:     splitList(k.Variant),
		ActiveKeymap: k.ActiveKeymap,
		Main:         k.Main,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Variant returns the variant configured for the layout at idx, empty when
// the variant list is shorter than the layout list.
func (k Keyboard) Variant(idx int) string {
	if idx < len(k.Variants) {
		return k.Variants[idx]
	}
	return ""
}

// SwitchToLayout selects layout idx on the named keyboard; "all" switches
// every keyboard.
func (c *Hyprctl) SwitchToLayout(keyboard string, idx int) error {
	resp, err := c.request(fmt.Sprintf("switchxkblayout %s %d", keyboard, idx), "")
	if err != nil {
		return err
	}

	if out := strings.TrimSpace(string(resp)); out != "ok" {
		return fmt.Errorf("hyprctl: %s", out)
	}

	return nil
}

func (c *Hyprctl) GetKeyboards() ([]Keyboard, error) {
	resp, err := c.request("devices", "j")
	if err != nil {
		return nil, err
	}

	var devs devices
	if err := json.Unmarshal(resp, &devs); err != nil {
		return nil, fmt.Errorf("unmarshal devices: %w, (hyprctl: %s)", err, resp)
	}

	out := make([]Keyboard, 0, len(devs.Keyboards))
	for _, k := range devs.Keyboards {
		out = append(out, k.ToKeyboard())
	}

	return out, nil
}

func (c *Hyprctl) request(request string, flags string) ([]byte, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial hyprctl socket: %w", err)
	}
	defer conn.Close()

	if flags != "" {
		request = fmt.Sprintf("%s/%s", flags, request)
	}

	if _, err := conn.Write([]byte(request)); err != nil {
		return nil, fmt.Errorf("write to hyprctl socket: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		return nil, fmt.Errorf("read response from hyprctl socket: %w", err)
	}

	return buf.Bytes(), nil
}
