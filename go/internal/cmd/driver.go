package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyquiz/go/internal/client"
)

// runDriver maps stdin commands onto client actions. It is the stand-in for
// the buttons a real UI would have; every command is fire-and-forget, the
// next state snapshot is the confirmation.
func runDriver(ctx context.Context, c *client.Client, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "start":
			err = c.StartGame()
		case "answer":
			if len(fields) < 2 {
				log.Warn().Msg("usage: answer <index>")
				continue
			}
			id, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				log.Warn().Str("arg", fields[1]).Msg("answer index must be a number")
				continue
			}
			err = c.Answer(id)
		case "reveal":
			err = c.ConfirmResults()
		case "continue":
			err = c.CompleteResults()
		case "final":
			err = c.CompleteFinal()
		case "end":
			err = c.EndGame()
		case "logout":
			err = c.Logout()
			if err == nil {
				return
			}
		default:
			log.Warn().Str("command", fields[0]).Msg("unknown command")
			continue
		}

		if err != nil {
			log.Warn().Err(err).Str("command", fields[0]).Msg("command failed")
		}
	}
}
