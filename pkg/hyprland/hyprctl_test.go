package hyprland

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"path/filepath"
	"sync"
	"testing"
)

const devicesJSON = `{
  "mice": [],
  "keyboards": [
    {
      "address": "0x1",
      "name": "keychron-k6",
      "rules": "", "model": "",
      "layout": "us, fr",
      "variant": "dvorak,",
      "options": "",
      "active_keymap": "French",
      "main": false
    },
    {
      "address": "0x2",
      "name": "at-translated-set-2-keyboard",
      "rules": "", "model": "",
      "layout": "us,fr",
      "variant": "dvorak,",
      "options": "",
      "active_keymap": "English (Dvorak)",
      "main": true
    }
  ]
}`

type fakeCtlSocket struct {
	lock     sync.Mutex
	requests []string
}

func (f *fakeCtlSocket) received() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.requests...)
}

func startFakeCtlSocket(t *testing.T, respond func(request string) string) (*Hyprctl, *fakeCtlSocket) {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".socket.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	fake := &fakeCtlSocket{}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			buf := make([]byte, 4096)
			n, _ := conn.Read(buf)
			req := string(buf[:n])

			fake.lock.Lock()
			fake.requests = append(fake.requests, req)
			fake.lock.Unlock()

			_, _ = conn.Write([]byte(respond(req)))
			conn.Close()
		}
	}()

	return &Hyprctl{socketPath: path}, fake
}

func TestGetKeyboards(t *testing.T) {
	ctl, fake := startFakeCtlSocket(t, func(string) string { return devicesJSON })

	keyboards, err := ctl.GetKeyboards()
	require.NoError(t, err)

	require.Len(t, keyboards, 2)
	assert.Equal(t, Keyboard{
		Name:         "keychron-k6",
		Layouts:      []string{"us", "fr"},
		Variants:     []string{"dvorak", ""},
		ActiveKeymap: "French",
	}, keyboards[0])
	assert.True(t, keyboards[1].Main)
	assert.Equal(t, []string{"j/devices"}, fake.received())
}

func TestGetKeyboardsBadResponse(t *testing.T) {
	ctl, _ := startFakeCtlSocket(t, func(string) string { return "unknown request" })

	_, err := ctl.GetKeyboards()
	assert.ErrorContains(t, err, "unmarshal devices")
}

func TestSwitchToLayout(t *testing.T) {
	ctl, fake := startFakeCtlSocket(t, func(req string) string {
		if req == "switchxkblayout all 1" {
			return "ok"
		}
		return "layout idx out of range"
	})

	require.NoError(t, ctl.SwitchToLayout("all", 1))
	assert.ErrorContains(t, ctl.SwitchToLayout("all", 7), "layout idx out of range")
	assert.Equal(t, []string{"switchxkblayout all 1", "switchxkblayout all 7"}, fake.received())
}

func TestSocketGone(t *testing.T) {
	ctl := &Hyprctl{socketPath: filepath.Join(t.TempDir(), "missing.sock")}

	_, err := ctl.GetKeyboards()
	assert.ErrorContains(t, err, "dial hyprctl socket")
}

func TestSocketPathRequiresSignature(t *testing.T) {
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	_, err := getSocketPath(ctlSocket)
	assert.ErrorIs(t, err, ErrNotRunning)
}
