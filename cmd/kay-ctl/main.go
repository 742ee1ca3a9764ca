package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"kay/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket of a running kay")
	command := cli.StringP("command", "c", "", "Typed command to run instead of listening")
	cli.Parse()

	msg := ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	if text := strings.TrimSpace(*command); text != "" {
		msg = ipc.ControlMessage{Cmd: ipc.CmdSay, Text: text}
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Fprintln(os.Stderr, "kay not running:", err)
		os.Exit(1)
	}
}
