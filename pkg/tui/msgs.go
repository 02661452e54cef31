package tui

import "github.com/go-go-golems/plugbus/pkg/protocol"

// PromptTextMsg asks the UI to present a single-field prompt. Exactly one
// value is sent on Reply: the entered string, or nil on cancel.
type PromptTextMsg struct {
	Request *protocol.PromptTextRequest
	Reply   chan<- *string
}

// PromptFormMsg asks the UI to present a structured form. Exactly one
// value is sent on Reply: the entered values keyed by input key, or nil on
// cancel.
type PromptFormMsg struct {
	Request *protocol.PromptFormRequest
	Reply   chan<- map[string]string
}

type ToastMsg struct {
	Toast ToastEntry
}

type OpenSettingsMsg struct{}
