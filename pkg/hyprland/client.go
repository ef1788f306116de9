package hyprland

import (
	"bufio"
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"context"
	"fmt"
	"go.uber.org/zap"
	"net"
	"strings"
	"time"
)

// Client reads events from the Hyprland event socket.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

func Connect() (*Client, error) {
	conn, err := connect(eventSocket)
	if err != nil {
		return nil, err
	}

	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	return &Client{conn: conn, reader: bufio.NewReader(conn)}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ReadLine() (string, error) {
	str, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read from hypr socket: %w", err)
	}
	return strings.TrimSuffix(str, "\n"), nil
}

type Event struct {
	Type string
	Data string
}

const EventActiveLayout = "activelayout"

func ParseEvent(line string) (Event, error) {
	evType, data, found := strings.Cut(line, ">>")
	if !found {
		return Event{}, fmt.Errorf("invalid line: %q", line)
	}

	return Event{Type: evType, Data: data}, nil
}

// ListenLayoutChanges sends a layout change event to out for every active
// layout event until ctx is done or the socket fails. Other events are skipped.
func (c *Client) ListenLayoutChanges(ctx context.Context, out chan<- kbisw.Event, log *zap.SugaredLogger) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		line, err := c.ReadLine()
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			return err
		}

		ev, err := ParseEvent(line)
		if err != nil {
			log.Debugw("skipping event", "error", err)
			continue
		}
		if ev.Type != EventActiveLayout {
			continue
		}

		log.Debugw("layout changed", "data", ev.Data)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- kbisw.LayoutChanged():
		}
	}
}
