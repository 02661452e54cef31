// Package host is the plugin-runtime side of the bridge: it publishes
// request envelopes on plugin_event and awaits each reply on the channel
// named by the request's own id. Toasts and settings opens are
// uncorrelated notifications.
package host

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// Origin identifies the plugin instance a request is issued on behalf of.
// It is carried verbatim through the correlation layer and back.
type Origin struct {
	PluginName  string
	PluginRefID string
	Context     json.RawMessage
}

// Invoker is the capability surface plugins get access to.
type Invoker interface {
	PromptText(ctx context.Context, origin Origin, req *protocol.PromptTextRequest) (*string, error)
	PromptForm(ctx context.Context, origin Origin, req *protocol.PromptFormRequest) (map[string]string, error)
	ShowToast(ctx context.Context, req protocol.ShowToastRequest) error
	OpenSettings(ctx context.Context) error
}

// Client issues correlated requests over the bus. There is no reply
// routing table on the UI side; the client simply subscribes to the
// request-id channel before publishing and waits there.
type Client struct {
	bus    *bus.Bus
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[string]chan error
	fatal   error
}

var _ Invoker = (*Client)(nil)

func NewClient(b *bus.Bus, logger zerolog.Logger) *Client {
	return &Client{
		bus:     b,
		logger:  logger,
		pending: map[string]chan error{},
	}
}

// Request publishes env on plugin_event and blocks until the reply
// arrives on the env.ID channel, ctx is done, or the client is
// terminated. The UI enforces no timeout; timeouts are the caller's ctx.
func (c *Client) Request(ctx context.Context, env *protocol.Envelope) (*protocol.Envelope, error) {
	failCh := make(chan error, 1)

	c.mu.Lock()
	if c.fatal != nil {
		fatal := c.fatal
		c.mu.Unlock()
		return nil, errors.Wrap(fatal, "plugin host")
	}
	c.pending[env.ID] = failCh
	c.mu.Unlock()
	defer c.forget(env.ID)

	// Subscribe before publishing so an immediate reply cannot be lost.
	replyCh := make(chan *protocol.Envelope, 1)
	var once sync.Once
	unsub, err := c.bus.Subscribe(env.ReplyChannel(), func(hctx context.Context, body []byte) error {
		reply, err := protocol.Decode(body)
		if err != nil {
			return errors.Wrap(err, "decode reply")
		}
		once.Do(func() { replyCh <- reply })
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "subscribe reply channel")
	}
	defer unsub()

	if err := c.bus.Publish(ctx, protocol.ChannelPluginEvent, env); err != nil {
		return nil, errors.Wrap(err, "publish request")
	}

	select {
	case reply := <-replyCh:
		return reply, nil
	case err := <-failCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Terminate fails all pending requests and makes subsequent ones error
// immediately.
func (c *Client) Terminate(err error) {
	if err == nil {
		err = errors.New("terminated")
	}
	c.mu.Lock()
	c.fatal = err
	pending := c.pending
	c.pending = map[string]chan error{}
	c.mu.Unlock()

	c.logger.Debug().Int("pending", len(pending)).Msg("failing pending requests")
	for id, ch := range pending {
		ch <- errors.Wrapf(err, "request %s", id)
	}
}

func (c *Client) PromptText(ctx context.Context, origin Origin, req *protocol.PromptTextRequest) (*string, error) {
	if req.ID == "" {
		req.ID = protocol.NewID()
	}
	env := protocol.NewEnvelope(origin.PluginName, origin.PluginRefID, origin.Context, req)
	reply, err := c.Request(ctx, env)
	if err != nil {
		return nil, err
	}
	resp, ok := reply.Payload.(*protocol.PromptTextResponse)
	if !ok {
		return nil, errors.Errorf("unexpected reply payload %s", reply.Payload.PayloadType())
	}
	return resp.Value, nil
}

func (c *Client) PromptForm(ctx context.Context, origin Origin, req *protocol.PromptFormRequest) (map[string]string, error) {
	if req.ID == "" {
		req.ID = protocol.NewID()
	}
	env := protocol.NewEnvelope(origin.PluginName, origin.PluginRefID, origin.Context, req)
	reply, err := c.Request(ctx, env)
	if err != nil {
		return nil, err
	}
	resp, ok := reply.Payload.(*protocol.PromptFormResponse)
	if !ok {
		return nil, errors.Errorf("unexpected reply payload %s", reply.Payload.PayloadType())
	}
	return resp.Values, nil
}

// ShowToast fires an uncorrelated toast descriptor on show_toast.
func (c *Client) ShowToast(ctx context.Context, req protocol.ShowToastRequest) error {
	return errors.Wrap(c.bus.Publish(ctx, protocol.ChannelShowToast, req), "show toast")
}

// OpenSettings fires the settings navigation event. Empty payload.
func (c *Client) OpenSettings(ctx context.Context) error {
	return errors.Wrap(c.bus.Publish(ctx, protocol.ChannelSettings, struct{}{}), "open settings")
}
