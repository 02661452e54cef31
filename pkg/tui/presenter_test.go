package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

type scriptedSender struct {
	onMsg func(tea.Msg)
}

func (s *scriptedSender) Send(msg tea.Msg) {
	s.onMsg(msg)
}

func TestProgramPresenter_TextRoundTrip(t *testing.T) {
	sender := &scriptedSender{onMsg: func(msg tea.Msg) {
		v, ok := msg.(PromptTextMsg)
		if !ok {
			t.Errorf("unexpected msg %T", msg)
			return
		}
		go func() {
			value := v.Request.DefaultValue
			v.Reply <- &value
		}()
	}}

	p := NewProgramPresenter(sender)
	got, err := p.PromptText(context.Background(), &protocol.PromptTextRequest{ID: "p", Title: "t", DefaultValue: "abc"})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "abc", *got)
}

func TestProgramPresenter_FormCancelled(t *testing.T) {
	sender := &scriptedSender{onMsg: func(msg tea.Msg) {
		v := msg.(PromptFormMsg)
		go func() { v.Reply <- nil }()
	}}

	p := NewProgramPresenter(sender)
	got, err := p.PromptForm(context.Background(), &protocol.PromptFormRequest{ID: "f", Title: "t"})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestProgramPresenter_ContextCancelled(t *testing.T) {
	sender := &scriptedSender{onMsg: func(msg tea.Msg) {}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProgramPresenter(sender)
	_, err := p.PromptText(ctx, &protocol.PromptTextRequest{ID: "p", Title: "t"})
	require.Error(t, err)
}

func TestSubscribeToasts(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()

	got := make(chan tea.Msg, 1)
	unsub, err := SubscribeToasts(b, &scriptedSender{onMsg: func(msg tea.Msg) { got <- msg }})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, b.Publish(context.Background(), protocol.ChannelShowToast, protocol.ShowToastRequest{
		Message: "Failed to start plugin 'importer': boom",
		Color:   protocol.ColorDanger,
		Icon:    "alert-triangle",
		Timeout: 10000,
	}))

	select {
	case msg := <-got:
		toast, ok := msg.(ToastMsg)
		require.True(t, ok)
		require.Equal(t, "Failed to start plugin 'importer': boom", toast.Toast.Message)
		require.Equal(t, protocol.ColorDanger, toast.Toast.Color)
	case <-time.After(2 * time.Second):
		t.Fatal("no toast delivered")
	}
}

func TestSubscribeSettings(t *testing.T) {
	b := bus.New(zerolog.Nop())
	defer func() { _ = b.Close() }()

	got := make(chan tea.Msg, 1)
	unsub, err := SubscribeSettings(b, &scriptedSender{onMsg: func(msg tea.Msg) { got <- msg }})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, b.Publish(context.Background(), protocol.ChannelSettings, struct{}{}))

	select {
	case msg := <-got:
		_, ok := msg.(OpenSettingsMsg)
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no settings msg delivered")
	}
}
