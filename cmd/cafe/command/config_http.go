package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-cafe/internal/httpapi"
	"github.com/pixil98/go-errors"
)

// HttpConfig enables the JSON API when Addr is set.
type HttpConfig struct {
	Addr            string `json:"addr,omitempty"`
	RequestTimeout  string `json:"request_timeout,omitempty"`
	ShutdownTimeout string `json:"shutdown_timeout,omitempty"`
}

func (c *HttpConfig) Validate() error {
	el := errors.NewErrorList()

	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			el.Add(fmt.Errorf("http: parsing request_timeout: %w", err))
		}
	}
	if c.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
			el.Add(fmt.Errorf("http: parsing shutdown_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *HttpConfig) buildServer(f httpapi.Floor) (*httpapi.Server, error) {
	var opts []httpapi.ServerOpt
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing request_timeout: %w", err)
		}
		opts = append(opts, httpapi.WithRequestTimeout(d))
	}
	if c.ShutdownTimeout != "" {
		d, err := time.ParseDuration(c.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing shutdown_timeout: %w", err)
		}
		opts = append(opts, httpapi.WithShutdownTimeout(d))
	}

	return httpapi.NewServer(c.Addr, f, opts...), nil
}
