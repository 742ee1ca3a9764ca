package listen

import (
	"context"
	log "log/slog"

	"kay/internal/ipc"
)

// Trigger waits for control messages from kay-ctl. A trigger records one
// command through Mic; a say message carries a typed command.
type Trigger struct {
	Requests <-chan ipc.ControlMessage
	Mic      *Mic
}

func (t *Trigger) Capture(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case msg := <-t.Requests:
		switch msg.Cmd {
		case ipc.CmdTrigger:
			if t.Mic == nil {
				log.Warn("Trigger received but no microphone is configured")
				return "", nil
			}
			return t.Mic.Capture(ctx)
		case ipc.CmdSay:
			return Normalize(msg.Text), nil
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return "", nil
		}
	}
}
