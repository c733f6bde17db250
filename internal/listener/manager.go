// Package listener accepts operator connections over telnet and ssh and hands
// each one to a session runner.
package listener

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// SessionRunner serves one connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	runner      SessionRunner
	maxSessions int64
	active      atomic.Int64
}

type ConnectionManagerOpt func(*ConnectionManager)

// WithMaxSessions refuses connections beyond n concurrent sessions. Zero
// means no limit.
func WithMaxSessions(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.maxSessions = int64(n)
	}
}

func NewConnectionManager(runner SessionRunner, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		runner: runner,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	n := m.active.Add(1)
	defer m.active.Add(-1)

	if m.maxSessions > 0 && n > m.maxSessions {
		slog.WarnContext(ctx, "refusing console session", "active", n-1, "max", m.maxSessions)
		_, _ = conn.Write([]byte("Too many operators connected, try again later.\n"))
		return
	}

	if err := m.runner.RunSession(ctx, conn); err != nil && ctx.Err() == nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}

// Active reports how many sessions are open.
func (m *ConnectionManager) Active() int {
	return int(m.active.Load())
}
