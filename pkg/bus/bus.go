// Package bus adapts watermill's in-process gochannel Pub/Sub into the
// publish/subscribe primitives the correlation layer is built on: string
// channel names, fan-out to all subscribers of a channel, fire-and-forget
// publish with no acknowledgement, retry, or backpressure.
package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrTransport marks failures at the bus boundary. Publish and Subscribe
// errors satisfy errors.Is(err, ErrTransport).
var ErrTransport = errors.New("transport error")

// Handler receives the raw body of one published message. Handlers for a
// rapid sequence of messages on one channel run concurrently; nothing
// serializes them. A handler error is logged and otherwise ignored.
type Handler func(ctx context.Context, body []byte) error

// Unsubscribe tears down one subscription. Safe to call more than once.
type Unsubscribe func()

// Publisher is the subset of Bus that emitting components depend on.
type Publisher interface {
	Publish(ctx context.Context, channel string, v interface{}) error
}

type Bus struct {
	pubSub *gochannel.GoChannel
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func New(logger zerolog.Logger) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermillLogger{logger: logger})
	return &Bus{
		pubSub: pubSub,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish marshals v and hands it to the transport. It resolves when the
// transport has accepted the message, not when any recipient has processed
// it. Publishing on a channel nobody subscribes to is not an error.
func (b *Bus) Publish(ctx context.Context, channel string, v interface{}) error {
	_ = ctx
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode message for %s", channel)
	}
	if err := b.pubSub.Publish(channel, message.NewMessage(watermill.NewUUID(), body)); err != nil {
		return errors.Wrapf(ErrTransport, "publish on %s: %v", channel, err)
	}
	return nil
}

// Subscribe registers h on channel. All handlers subscribed to a channel
// receive every message published on it; different channels are isolated.
// Each delivered message runs h in its own goroutine.
func (b *Bus) Subscribe(channel string, h Handler) (Unsubscribe, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.Wrap(ErrTransport, "bus closed")
	}
	b.mu.Unlock()

	subCtx, cancel := context.WithCancel(b.ctx)
	msgs, err := b.pubSub.Subscribe(subCtx, channel)
	if err != nil {
		cancel()
		return nil, errors.Wrapf(ErrTransport, "subscribe %s: %v", channel, err)
	}

	go func() {
		for msg := range msgs {
			// Ack on receipt: delivery to a subscriber is serialized
			// until the previous message is acked, and a suspended
			// handler must not hold up subsequent messages.
			msg.Ack()
			go b.deliver(subCtx, channel, h, msg)
		}
	}()

	return Unsubscribe(cancel), nil
}

func (b *Bus) deliver(ctx context.Context, channel string, h Handler, msg *message.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Str("channel", channel).Interface("panic", r).Msg("handler panicked")
		}
	}()
	if err := h(ctx, msg.Payload); err != nil {
		b.logger.Error().Err(err).Str("channel", channel).Msg("handler failed")
	}
}

// Close shuts the transport down. In-flight handlers are cancelled via
// their subscription contexts.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	if err := b.pubSub.Close(); err != nil {
		return errors.Wrapf(ErrTransport, "close: %v", err)
	}
	return nil
}
