package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/go-party/internal/commands"
	"github.com/pixil98/go-party/internal/party"
)

const helpText = `Commands:
  party <verb> [player]  manage your party (try "party" for the verbs)
  who                    list online players
  where                  show where you are
  go <place>             travel somewhere
  quit                   leave the game`

// Session is one connected player.
type Session struct {
	id       party.Identity
	conn     io.ReadWriter
	in       *bufio.Reader
	mgr      *Manager
	location string // guarded by mgr.mu

	msgs chan []byte
	done chan struct{}
}

// deliver hands a published message to the session loop.
func (s *Session) deliver(data []byte) {
	select {
	case s.msgs <- data:
	case <-s.done:
	}
}

func (s *Session) Play(ctx context.Context) error {
	// Start goroutine to read input lines into a channel
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		for {
			line, err := readLine(s.in)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					inputErrChan <- err
				}
				return
			}
			select {
			case inputChan <- line:
			case <-s.done:
				return
			}
		}
	}()

	if err := s.prompt(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-s.msgs:
			if err := s.writeLine("\n" + string(msg)); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			quit, err := s.exec(ctx, strings.Fields(line))
			if err != nil {
				return err
			}
			if quit {
				return s.writeLine("Goodbye!")
			}

			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

func (s *Session) exec(ctx context.Context, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "party":
		err := s.mgr.cmds.Exec(ctx, s.id, args...)
		if err != nil {
			var userErr *commands.UserError
			if !errors.As(err, &userErr) {
				return false, fmt.Errorf("party command failed: %w", err)
			}
			s.mgr.msg.SendError(s.id, userErr.Message)
		}
		return false, nil

	case "who":
		names := make([]string, 0)
		for _, id := range s.mgr.OnlinePlayers() {
			names = append(names, string(id))
		}
		return false, s.writeLine("Online: " + strings.Join(names, ", "))

	case "where":
		loc, _ := s.mgr.Location(s.id)
		return false, s.writeLine(fmt.Sprintf("You are at the %s.", loc))

	case "go":
		if len(args) == 0 {
			return false, s.writeLine("Go where?")
		}
		place := strings.Join(args, " ")
		s.mgr.move(s.id, place)
		return false, s.writeLine(fmt.Sprintf("You travel to the %s.", place))

	case "help":
		return false, s.writeLine(helpText)

	case "quit":
		return true, nil
	}

	slog.Debug("unknown command", "player", s.id, "command", cmd)
	return false, s.writeLine(fmt.Sprintf("Unknown command: %s. Type help for a list.", cmd))
}

func (s *Session) prompt() error {
	_, err := io.WriteString(s.conn, "> ")
	return err
}

func (s *Session) writeLine(msg string) error {
	_, err := io.WriteString(s.conn, msg+"\n\n")
	return err
}
