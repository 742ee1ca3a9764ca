// Package ipc carries control messages from kay-ctl to a running assistant
// over a unix socket.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/kay.sock"

const (
	// CmdTrigger asks the assistant to listen for one spoken command.
	CmdTrigger = "trigger"
	// CmdSay hands the assistant a typed command in Text.
	CmdSay = "say"
)

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Server struct {
	path string
	ln   net.Listener
}

// StartServer listens on path and calls handler for every decoded message.
// A stale socket file left by a previous run is removed first.
func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{path: path, ln: ln}

	go func() {
		for {
			conn, err := ln.Accept()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				log.Warn("Failed to accept control connection", "err", err)
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return s, nil
}

func (s *Server) Close() error {
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		log.Warn("Bad control message", "err", err)
		return
	}
	handler(msg)
}

func Send(path string, msg ControlMessage) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	return enc.Encode(msg)
}
