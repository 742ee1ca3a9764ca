// Package bus connects Kay to a websocket message hub. Commands addressed to
// Kay arrive as messages and responses are sent back to whoever asked.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"kay/internal/listen"
)

const (
	KindCommand = "command"
	KindReply   = "reply"

	// Broadcast addresses every shard on the hub.
	Broadcast = "ALL"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

type Bus struct {
	url    string
	shard  string
	reconn time.Duration

	mu       sync.Mutex
	conn     *ws.Conn
	lastFrom string
}

// Dial connects to the hub at url as shard. reconn is the wait between
// reconnection attempts after the hub closes the connection.
func Dial(ctx context.Context, url, shard string, reconn time.Duration) (*Bus, error) {
	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	log.Info("Connected to bus", "url", url, "shard", shard)

	return &Bus{
		url:    url,
		shard:  shard,
		reconn: reconn,
		conn:   conn,
	}, nil
}

// Capture blocks until a command for this shard arrives and returns its
// normalized content.
func (b *Bus) Capture(ctx context.Context) (string, error) {
	for {
		conn := b.current()

		stop := context.AfterFunc(ctx, func() { conn.Close() })
		_, data, err := conn.ReadMessage()
		stop()

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		// a gorilla connection is unusable after any read error
		if err != nil {
			if isClosed(err) {
				log.Warn("Bus closed, reconnecting", "url", b.url)
			} else {
				log.Error("Failed to read bus, reconnecting", "url", b.url, "err", err)
			}
			conn.Close()
			if err := b.reconnect(ctx); err != nil {
				return "", err
			}
			log.Info("Reconnected to bus")
			continue
		}

		log.Debug("Read bus", "msg", string(data))

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn("Failed to parse", "msg", string(data), "err", err)
			continue
		}
		if m.Kind != KindCommand || (m.To != b.shard && m.To != Broadcast) {
			continue
		}

		b.mu.Lock()
		b.lastFrom = m.From
		b.mu.Unlock()

		return listen.Normalize(m.Content), nil
	}
}

// Announce replies to the sender of the last command.
func (b *Bus) Announce(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lastFrom == "" {
		return nil
	}

	data, err := json.Marshal(Message{
		From:    b.shard,
		To:      b.lastFrom,
		Kind:    KindReply,
		Content: text,
	})
	if err != nil {
		return err
	}

	return b.conn.WriteMessage(ws.TextMessage, data)
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.conn.Close()
}

func (b *Bus) current() *ws.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.conn
}

func (b *Bus) reconnect(ctx context.Context) error {
	for {
		conn, _, err := ws.DefaultDialer.DialContext(ctx, b.url, nil)
		if err == nil {
			b.mu.Lock()
			b.conn = conn
			b.mu.Unlock()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.reconn):
		}
	}
}

func isClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
