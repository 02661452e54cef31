package tui

import (
	"context"

	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// ProgramPresenter bridges dispatcher goroutines into a running bubbletea
// program. Each prompt is sent to the UI loop together with a buffered
// reply channel; the presenter suspends on that channel without ever
// blocking the UI loop itself.
type ProgramPresenter struct {
	send Sender
}

func NewProgramPresenter(send Sender) *ProgramPresenter {
	return &ProgramPresenter{send: send}
}

func (p *ProgramPresenter) PromptText(ctx context.Context, req *protocol.PromptTextRequest) (*string, error) {
	reply := make(chan *string, 1)
	p.send.Send(PromptTextMsg{Request: req, Reply: reply})
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ProgramPresenter) PromptForm(ctx context.Context, req *protocol.PromptFormRequest) (map[string]string, error) {
	reply := make(chan map[string]string, 1)
	p.send.Send(PromptFormMsg{Request: req, Reply: reply})
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
