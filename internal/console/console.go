// Package console is the operator's line-oriented view of the café, served
// over telnet and ssh.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/display"
	"github.com/pixil98/go-cafe/internal/floor"
	"github.com/pixil98/go-cafe/internal/messaging"
)

const (
	prompt        = "cafe> "
	watchBuffer   = 64
	welcomeBanner = "Café floor console. Type 'help' for a list of commands."
)

// Floor is what the console needs from the running floor.
type Floor interface {
	Snapshot() floor.Snapshot
	Spawn(ctx context.Context, patron string) (floor.CustomerView, error)
	Serve(ctx context.Context, customerID, item string) error
	Dismiss(ctx context.Context, customerID string) error
	SetAutoSpawn(ctx context.Context, on bool) error
}

type Console struct {
	floor  Floor
	events messaging.Subscriber
}

type ConsoleOpt func(*Console)

// WithEvents enables the watch command.
func WithEvents(sub messaging.Subscriber) ConsoleOpt {
	return func(c *Console) {
		c.events = sub
	}
}

func NewConsole(f Floor, opts ...ConsoleOpt) *Console {
	c := &Console{floor: f}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type session struct {
	console *Console
	conn    io.ReadWriter

	watching chan customer.Event
	unwatch  func()
	quit     bool
}

// RunSession serves one operator until they quit, the connection drops or ctx
// is cancelled.
func (c *Console) RunSession(ctx context.Context, conn io.ReadWriter) error {
	s := &session{console: c, conn: conn}
	defer s.stopWatching()

	done := make(chan struct{})
	defer close(done)

	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-done:
				return
			}
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	err := s.writeLine(welcomeBanner)
	if err != nil {
		return err
	}
	err = s.prompt()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e := <-s.watching:
			err = s.writeLine(display.EventLine(e))
			if err != nil {
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

			if s.watching != nil {
				err = s.flushWatched()
				if err != nil {
					return err
				}
				s.stopWatching()
				err = s.writeLine("Stopped watching.")
				if err != nil {
					return err
				}
				err = s.prompt()
				if err != nil {
					return err
				}
				continue
			}

			err = s.exec(ctx, line)
			if err != nil {
				var userErr *UserError
				if !errors.As(err, &userErr) {
					return fmt.Errorf("command failed: %w", err)
				}
				err = s.writeLine(userErr.Message)
				if err != nil {
					return err
				}
			}

			if s.quit {
				return s.writeLine("Goodbye!")
			}
			if s.watching != nil {
				continue
			}

			err = s.prompt()
			if err != nil {
				return err
			}
		}
	}
}

func (s *session) exec(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	cmd, ok := commands[name]
	if !ok {
		return NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for a list of commands.", name))
	}

	slog.DebugContext(ctx, "console command", "command", name, "args", parts[1:])
	return cmd.run(ctx, s, parts[1:])
}

func (s *session) watch(customerID string) error {
	if s.console.events == nil {
		return NewUserError("Event streaming is not enabled on this server.")
	}

	ch := make(chan customer.Event, watchBuffer)
	unsub, err := messaging.SubscribeEvents(s.console.events, customerID, func(e customer.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	if err != nil {
		if errors.Is(err, messaging.ErrNotStarted) {
			return NewUserError("Event streaming is not ready yet, try again shortly.")
		}
		return err
	}

	s.watching = ch
	s.unwatch = unsub
	return nil
}

// flushWatched writes events that arrived before the operator stopped
// watching.
func (s *session) flushWatched() error {
	for {
		select {
		case e := <-s.watching:
			err := s.writeLine(display.EventLine(e))
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *session) stopWatching() {
	if s.unwatch != nil {
		s.unwatch()
	}
	s.watching = nil
	s.unwatch = nil
}

func (s *session) prompt() error {
	_, err := s.conn.Write([]byte(prompt))
	return err
}

func (s *session) writeLine(msg string) error {
	_, err := s.conn.Write([]byte(msg + "\n"))
	return err
}

func (s *session) write(msg string) error {
	_, err := s.conn.Write([]byte(msg))
	return err
}
