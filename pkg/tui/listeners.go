package tui

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// Sender is the part of *tea.Program the bus listeners need.
type Sender interface {
	Send(msg tea.Msg)
}

// SubscribeToasts wires the show_toast channel into the UI. The channel
// carries bare toast descriptors; toasts are never correlated and emit no
// reply.
func SubscribeToasts(b *bus.Bus, send Sender) (bus.Unsubscribe, error) {
	return b.Subscribe(protocol.ChannelShowToast, func(ctx context.Context, body []byte) error {
		var req protocol.ShowToastRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return errors.Wrap(err, "decode toast descriptor")
		}
		send.Send(ToastMsg{Toast: NewToastEntry(req, time.Now())})
		return nil
	})
}

// SubscribeSettings wires the settings channel into the UI: empty payload,
// navigation side effect, no reply.
func SubscribeSettings(b *bus.Bus, send Sender) (bus.Unsubscribe, error) {
	return b.Subscribe(protocol.ChannelSettings, func(ctx context.Context, body []byte) error {
		send.Send(OpenSettingsMsg{})
		return nil
	})
}
