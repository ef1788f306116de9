package hyprland

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"net"
	"os"
	"path/filepath"
)

var ErrNotRunning = errors.New("hyprland might not be running")

type socketType int

const (
	ctlSocket socketType = iota
	eventSocket
)

func (s socketType) fileName() string {
	switch s {
	case ctlSocket:
		return ".socket.sock"
	case eventSocket:
		return ".socket2.sock"
	}
	return ""
}

func connect(sock socketType) (net.Conn, error) {
	socketPath, err := getSocketPath(sock)
	if err != nil {
		return nil, fmt.Errorf("get socket path: %w", err)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return conn, nil
}

// getSocketPath finds the instance directory, which newer Hyprland releases
// keep under $XDG_RUNTIME_DIR and older ones under /tmp.
func getSocketPath(sock socketType) (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set, %w", ErrNotRunning)
	}

	name := sock.fileName()
	if name == "" {
		return "", fmt.Errorf("unknown socket type: %d", sock)
	}

	for _, base := range []string{xdg.RuntimeDir, "/tmp"} {
		dir := filepath.Join(base, "hypr", signature)
		if _, err := os.Stat(dir); err == nil {
			return filepath.Join(dir, name), nil
		}
	}

	return "", fmt.Errorf("no socket directory for instance %q, %w", signature, ErrNotRunning)
}
