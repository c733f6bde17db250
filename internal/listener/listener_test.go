package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
)

type rw struct {
	io.Reader
	out *bytes.Buffer
}

func (r rw) Write(p []byte) (int, error) { return r.out.Write(p) }

func TestCRLFReadWriter(t *testing.T) {
	tests := map[string]struct {
		in     string
		write  string
		expIn  string
		expOut string
	}{
		"telnet style":  {in: "status\r\n", write: "ok\n", expIn: "status\n", expOut: "ok\r\n"},
		"bare carriage": {in: "seats\r", write: "a\nb\n", expIn: "seats\n", expOut: "a\r\nb\r\n"},
		"plain newline": {in: "queue\n", write: "none", expIn: "queue\n", expOut: "none"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			c := newCRLFReadWriter(rw{Reader: strings.NewReader(tt.in), out: out})

			buf := make([]byte, 64)
			n, err := c.Read(buf)
			if err != nil {
				t.Fatalf("unexpected read error: %v", err)
			}
			testutil.AssertEqual(t, "read", string(buf[:n]), tt.expIn)

			n, err = c.Write([]byte(tt.write))
			if err != nil {
				t.Fatalf("unexpected write error: %v", err)
			}
			testutil.AssertEqual(t, "reported length", n, len(tt.write))
			testutil.AssertEqual(t, "written", out.String(), tt.expOut)
		})
	}
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingRunner) RunSession(ctx context.Context, conn io.ReadWriter) error {
	b.started <- struct{}{}
	<-b.release
	return b.err
}

func TestConnectionManager_MaxSessions(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 2), release: make(chan struct{}), err: errors.New("dropped")}
	cm := NewConnectionManager(runner, WithMaxSessions(1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cm.AcceptConnection(context.Background(), rw{Reader: strings.NewReader(""), out: &bytes.Buffer{}})
	}()
	<-runner.started
	testutil.AssertEqual(t, "active", cm.Active(), 1)

	out := &bytes.Buffer{}
	cm.AcceptConnection(context.Background(), rw{Reader: strings.NewReader(""), out: out})
	testutil.AssertEqual(t, "refused", strings.Contains(out.String(), "Too many operators"), true)
	testutil.AssertEqual(t, "still one active", cm.Active(), 1)

	close(runner.release)
	wg.Wait()
	testutil.AssertEqual(t, "none active", cm.Active(), 0)
}
