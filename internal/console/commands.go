package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/display"
	"github.com/pixil98/go-cafe/internal/floor"
	"github.com/pixil98/go-cafe/internal/spawn"
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, s *session, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help": {
			usage: "help",
			help:  "list commands",
			run:   runHelp,
		},
		"status": {
			usage: "status",
			help:  "summary of the floor",
			run:   boardCommand("status"),
		},
		"seats": {
			usage: "seats",
			help:  "every seat and who holds it",
			run:   boardCommand("seats"),
		},
		"queue": {
			usage: "queue",
			help:  "customers waiting for a seat, first in line first",
			run:   boardCommand("queue"),
		},
		"customers": {
			usage: "customers",
			help:  "every customer on the floor",
			run:   boardCommand("customers"),
		},
		"spawn": {
			usage: "spawn [patron]",
			help:  "bring a customer in now",
			run:   runSpawn,
		},
		"serve": {
			usage: "serve <customer> <item>",
			help:  "hand a seated customer an item",
			run:   runServe,
		},
		"dismiss": {
			usage: "dismiss <customer>",
			help:  "end a customer's visit immediately",
			run:   runDismiss,
		},
		"auto": {
			usage: "auto on|off",
			help:  "turn automatic arrivals on or off",
			run:   runAuto,
		},
		"watch": {
			usage: "watch [customer]",
			help:  "stream customer events until you press Enter",
			run:   runWatch,
		},
		"quit": {
			usage: "quit",
			help:  "close the console",
			run: func(_ context.Context, s *session, _ []string) error {
				s.quit = true
				return nil
			},
		},
	}
}

func runHelp(_ context.Context, s *session, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-24s %s\n", commands[name].usage, commands[name].help)
	}
	return s.write(b.String())
}

func boardCommand(view string) func(context.Context, *session, []string) error {
	return func(_ context.Context, s *session, _ []string) error {
		out, err := display.Board(view, s.console.floor.Snapshot())
		if err != nil {
			return err
		}
		return s.write(out)
	}
}

func runSpawn(ctx context.Context, s *session, args []string) error {
	if len(args) > 1 {
		return NewUserError("Usage: spawn [patron]")
	}
	patron := ""
	if len(args) == 1 {
		patron = args[0]
	}

	cv, err := s.console.floor.Spawn(ctx, patron)
	switch {
	case errors.Is(err, spawn.ErrFull):
		return NewUserError("The café is at capacity.")
	case errors.Is(err, spawn.ErrUnknownPatron):
		return NewUserError(fmt.Sprintf("There is no patron called %q.", patron))
	case err != nil:
		return err
	}

	kind := cv.Patron
	if kind == "" {
		kind = "walk-in"
	}
	msg := fmt.Sprintf("%s customer %s arrived and is %s.", display.Capitalize(kind), cv.Id, strings.ReplaceAll(cv.State.String(), "_", " "))
	return s.writeLine(display.Wrap(msg))
}

func runServe(ctx context.Context, s *session, args []string) error {
	if len(args) != 2 {
		return NewUserError("Usage: serve <customer> <item>")
	}

	err := s.console.floor.Serve(ctx, args[0], args[1])
	switch {
	case errors.Is(err, floor.ErrCustomerNotFound):
		return NewUserError(fmt.Sprintf("No customer %s on the floor.", args[0]))
	case errors.Is(err, customer.ErrNotSeated):
		return NewUserError(fmt.Sprintf("Customer %s is not seated.", args[0]))
	case errors.Is(err, customer.ErrNoOrder):
		return NewUserError(fmt.Sprintf("Customer %s has not ordered anything.", args[0]))
	case errors.Is(err, customer.ErrAlreadyServed):
		return NewUserError(fmt.Sprintf("Customer %s has already been served.", args[0]))
	case err != nil:
		return err
	}

	return s.writeLine(fmt.Sprintf("Served %s to %s.", args[1], args[0]))
}

func runDismiss(ctx context.Context, s *session, args []string) error {
	if len(args) != 1 {
		return NewUserError("Usage: dismiss <customer>")
	}

	err := s.console.floor.Dismiss(ctx, args[0])
	if errors.Is(err, floor.ErrCustomerNotFound) {
		return NewUserError(fmt.Sprintf("No customer %s on the floor.", args[0]))
	}
	if err != nil {
		return err
	}

	return s.writeLine(fmt.Sprintf("Customer %s has been shown out.", args[0]))
}

func runAuto(ctx context.Context, s *session, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return NewUserError("Usage: auto on|off")
	}

	on := args[0] == "on"
	err := s.console.floor.SetAutoSpawn(ctx, on)
	if err != nil {
		return err
	}

	return s.writeLine(fmt.Sprintf("Automatic arrivals turned %s.", args[0]))
}

func runWatch(_ context.Context, s *session, args []string) error {
	if len(args) > 1 {
		return NewUserError("Usage: watch [customer]")
	}
	id := ""
	if len(args) == 1 {
		id = args[0]
	}

	err := s.watch(id)
	if err != nil {
		return err
	}

	return s.writeLine("Watching events, press Enter to stop.")
}
