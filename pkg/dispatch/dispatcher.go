// Package dispatch owns the single process-wide subscription on the
// plugin_event channel. It decodes inbound envelopes, routes correlated
// request variants to their responders, and publishes each reply on the
// channel named by the request's id.
package dispatch

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/prompt"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

type dispatcherState int

const (
	stateIdle dispatcherState = iota
	stateStarted
	stateStopped
)

type Options struct {
	Bus  *bus.Bus
	Text prompt.TextPresenter
	Form prompt.FormPresenter

	// Publisher defaults to Bus. Overridable for tests.
	Publisher bus.Publisher

	Logger zerolog.Logger
}

// Dispatcher holds the plugin_event subscription for the lifetime of the
// process. Start is init-once: a second Start is a no-op, and Start after
// Stop errors; re-subscribing twice would double-dispatch.
type Dispatcher struct {
	bus    *bus.Bus
	pub    bus.Publisher
	text   prompt.TextPresenter
	form   prompt.FormPresenter
	logger zerolog.Logger

	mu    sync.Mutex
	state dispatcherState
	unsub bus.Unsubscribe
}

func New(opts Options) (*Dispatcher, error) {
	if opts.Bus == nil {
		return nil, errors.New("missing Bus")
	}
	if opts.Text == nil {
		return nil, errors.New("missing Text presenter")
	}
	if opts.Form == nil {
		return nil, errors.New("missing Form presenter")
	}
	pub := opts.Publisher
	if pub == nil {
		pub = opts.Bus
	}
	return &Dispatcher{
		bus:    opts.Bus,
		pub:    pub,
		text:   opts.Text,
		form:   opts.Form,
		logger: opts.Logger,
	}, nil
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case stateStarted:
		return nil
	case stateStopped:
		return errors.New("dispatcher stopped, re-initialization is not supported")
	}

	unsub, err := d.bus.Subscribe(protocol.ChannelPluginEvent, func(hctx context.Context, body []byte) error {
		d.handle(hctx, body)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "subscribe plugin_event")
	}
	d.unsub = unsub
	d.state = stateStarted
	return nil
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != stateStarted {
		d.state = stateStopped
		return
	}
	d.unsub()
	d.unsub = nil
	d.state = stateStopped
}

// handle processes one inbound envelope. Failures are isolated to the
// envelope: they never tear down the subscription.
func (d *Dispatcher) handle(ctx context.Context, body []byte) {
	env, err := protocol.Decode(body)
	if err != nil {
		// Trusted in-process channel with a versioned contract; drop
		// quietly but leave a trace for operators.
		d.logger.Debug().Err(err).Msg("dropping undecodable envelope")
		return
	}

	var result protocol.Payload
	switch p := env.Payload.(type) {
	case *protocol.PromptTextRequest:
		value, err := d.text.PromptText(ctx, p)
		if err != nil {
			d.logger.Error().Err(err).Str("id", env.ID).Msg("text responder failed")
			return
		}
		result = &protocol.PromptTextResponse{Value: value}
	case *protocol.PromptFormRequest:
		values, err := d.form.PromptForm(ctx, p)
		if err != nil {
			d.logger.Error().Err(err).Str("id", env.ID).Msg("form responder failed")
			return
		}
		result = &protocol.PromptFormResponse{Values: values}
	case *protocol.ShowToastRequest, *protocol.OpenSettingsRequest:
		// Uncorrelated single-shot requests, handled by their own
		// subscriptions. Nothing to do at this layer.
		return
	default:
		d.logger.Debug().Str("id", env.ID).Str("type", env.Payload.PayloadType()).
			Msg("dropping unrecognized payload")
		return
	}

	if err := EmitReply(ctx, d.pub, env, result); err != nil {
		d.logger.Error().Err(err).Str("id", env.ID).Msg("reply publish failed")
	}
}
