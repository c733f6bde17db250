package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-cafe/internal/console"
	"github.com/pixil98/go-cafe/internal/driver"
	"github.com/pixil98/go-cafe/internal/floor"
	"github.com/pixil98/go-cafe/internal/listener"
	"github.com/pixil98/go-cafe/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config any) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	workers := service.WorkerList{}

	seats, patrons, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, err
	}

	floorOpts, err := cfg.Floor.floorOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring floor: %w", err)
	}

	// Event bus
	var consoleOpts []console.ConsoleOpt
	if !cfg.Nats.Disabled {
		ns, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		floorOpts = append(floorOpts, floor.WithObserver(messaging.NewEventPublisher(ns)))
		consoleOpts = append(consoleOpts, console.WithEvents(ns))
		workers["nats"] = ns
	} else {
		slog.Info("nats disabled, customer events will not be published")
	}

	f, err := floor.NewFloor(seats, patrons, floorOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating floor: %w", err)
	}

	// Setup the simulation driver
	var driverOpts []driver.SimDriverOpt
	if d := cfg.tickInterval(); d > 0 {
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	if cfg.TimeScale > 0 {
		driverOpts = append(driverOpts, driver.WithTimeScale(cfg.TimeScale))
	}
	workers["driver"] = driver.NewSimDriver([]driver.Ticker{f}, driverOpts...)

	// Create Listeners
	cm := listener.NewConnectionManager(
		console.NewConsole(f, consoleOpts...),
		listener.WithMaxSessions(cfg.Console.MaxSessions),
	)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-%d", l.Protocol, l.Port)] = w
	}
	workers["listeners"] = &listeners

	if cfg.Http.Addr != "" {
		srv, err := cfg.Http.buildServer(f)
		if err != nil {
			return nil, fmt.Errorf("creating http server: %w", err)
		}
		workers["http"] = srv
	}

	return workers, nil
}
