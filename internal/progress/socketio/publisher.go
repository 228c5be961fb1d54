// Package socketio publishes build progress events to a socket.io server.
package socketio

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventName is the socket.io event every progress event is emitted as.
const EventName = "progress"

// DefaultConnectTimeout bounds how long Connect waits for the handshake.
const DefaultConnectTimeout = 15 * time.Second

// Publisher is a progress.Sink backed by a connected socket.io client.
type Publisher struct {
	io *socket.Socket
}

// Connect dials rawURL and joins namespace. It returns once the server has
// acknowledged the connection, the context is done or timeout elapses.
func Connect(ctx context.Context, rawURL, namespace string, timeout time.Duration) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", rawURL)
	logger.Debug("Connecting progress publisher...")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse progress URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("progress URL %q must be absolute", rawURL)
	}
	if namespace == "" {
		namespace = "/"
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Progress publisher connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Publish emits e as a "progress" event.
func (p *Publisher) Publish(e progress.Event) {
	p.io.Emit(EventName, Payload(e))
}

// Close disconnects the client.
func (p *Publisher) Close() error {
	p.io.Disconnect()
	return nil
}

// Payload converts an event into the JSON object sent over the wire.
func Payload(e progress.Event) map[string]any {
	out := map[string]any{
		"run_id":  e.RunID,
		"type":    string(e.Type),
		"step":    e.Step,
		"total":   e.Total,
		"percent": e.Percent(),
		"wave":    e.Wave,
		"time":    e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.WaveSize > 0 {
		out["wave_size"] = e.WaveSize
	}
	if e.Module != "" {
		out["module"] = e.Module
		out["module_type"] = e.ModuleType
		out["kind"] = string(e.Kind)
		out["dir"] = e.Dir
	}
	if e.Phase != "" {
		out["phase"] = string(e.Phase)
	}
	if e.Status != "" {
		out["status"] = e.Status
	}
	return out
}
