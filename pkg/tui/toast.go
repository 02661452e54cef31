package tui

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/go-go-golems/plugbus/pkg/protocol"
)

const DefaultToastTimeout = 5 * time.Second

// ToastEntry is one toast on screen.
type ToastEntry struct {
	Message string
	Color   string
	Icon    string
	At      time.Time
	Expires time.Time
}

// NewToastEntry builds a toast entry from a wire descriptor. Senders stamp
// At in whatever format their side produces, so it is parsed leniently;
// unparseable or absent timestamps fall back to now.
func NewToastEntry(req protocol.ShowToastRequest, now time.Time) ToastEntry {
	at := now
	if req.At != "" {
		if parsed, err := dateparse.ParseAny(req.At); err == nil {
			at = parsed
		}
	}
	timeout := time.Duration(req.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultToastTimeout
	}
	return ToastEntry{
		Message: req.Message,
		Color:   req.Color,
		Icon:    req.Icon,
		At:      at,
		Expires: now.Add(timeout),
	}
}
