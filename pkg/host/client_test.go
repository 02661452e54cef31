package host

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/dispatch"
	"github.com/go-go-golems/plugbus/pkg/prompt"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

func startUISide(t *testing.T, b *bus.Bus, text prompt.TextPresenter, form prompt.FormPresenter) {
	t.Helper()
	if text == nil {
		text = prompt.TextPresenterFunc(func(ctx context.Context, req *protocol.PromptTextRequest) (*string, error) {
			return nil, nil
		})
	}
	if form == nil {
		form = prompt.FormPresenterFunc(func(ctx context.Context, req *protocol.PromptFormRequest) (map[string]string, error) {
			return nil, nil
		})
	}
	d, err := dispatch.New(dispatch.Options{Bus: b, Text: text, Form: form, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
}

func TestClient_PromptTextRoundTrip(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()

	startUISide(t, b, prompt.TextPresenterFunc(func(ctx context.Context, req *protocol.PromptTextRequest) (*string, error) {
		v := "entered:" + req.Title
		return &v, nil
	}), nil)

	c := NewClient(b, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	origin := Origin{PluginName: "copy-as-curl", PluginRefID: "ref-1", Context: json.RawMessage(`{"windowId":"w1"}`)}
	value, err := c.PromptText(ctx, origin, &protocol.PromptTextRequest{Title: "Name"})
	require.NoError(t, err)
	require.NotNil(t, value)
	require.Equal(t, "entered:Name", *value)
}

func TestClient_PromptFormCancelled(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()
	startUISide(t, b, nil, nil)

	c := NewClient(b, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	values, err := c.PromptForm(ctx, Origin{PluginName: "importer"}, &protocol.PromptFormRequest{
		Title:  "Details",
		Inputs: []protocol.FormInput{{Key: "name"}},
	})
	require.NoError(t, err)
	require.Nil(t, values)
}

func TestClient_TerminateFailsPending(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()
	// No dispatcher running: the request would hang forever.

	c := NewClient(b, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Request(context.Background(), protocol.NewEnvelope("p", "", nil,
			&protocol.PromptTextRequest{ID: "p1", Title: "t"}))
		errCh <- err
	}()

	// Let the request get registered before terminating.
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.pending) == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.Terminate(nil)

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pending request not failed by Terminate")
	}

	// Subsequent requests fail fast.
	_, err := c.Request(context.Background(), protocol.NewEnvelope("p", "", nil,
		&protocol.PromptTextRequest{ID: "p2", Title: "t"}))
	require.Error(t, err)
}

func TestClient_ShowToastAndOpenSettings(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()

	toasts := make(chan protocol.ShowToastRequest, 1)
	unsubToast, err := b.Subscribe(protocol.ChannelShowToast, func(ctx context.Context, body []byte) error {
		var req protocol.ShowToastRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return err
		}
		toasts <- req
		return nil
	})
	require.NoError(t, err)
	defer unsubToast()

	settings := make(chan struct{}, 1)
	unsubSettings, err := b.Subscribe(protocol.ChannelSettings, func(ctx context.Context, body []byte) error {
		settings <- struct{}{}
		return nil
	})
	require.NoError(t, err)
	defer unsubSettings()

	c := NewClient(b, zerolog.Nop())
	require.NoError(t, c.ShowToast(context.Background(), protocol.ShowToastRequest{Message: "hello", Color: protocol.ColorSuccess}))
	require.NoError(t, c.OpenSettings(context.Background()))

	select {
	case toast := <-toasts:
		require.Equal(t, "hello", toast.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("toast not delivered")
	}
	select {
	case <-settings:
	case <-time.After(2 * time.Second):
		t.Fatal("settings event not delivered")
	}
}
