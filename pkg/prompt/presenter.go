// Package prompt defines the responder contracts the dispatcher routes
// correlated requests to, plus bubbletea-backed implementations that put
// the question in front of a human.
package prompt

import (
	"context"

	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// TextPresenter asks the user for a single line of text. A nil result
// means the user cancelled; cancellation is not an error. Implementations
// may suspend until the user acts but must honor ctx.
type TextPresenter interface {
	PromptText(ctx context.Context, req *protocol.PromptTextRequest) (*string, error)
}

// FormPresenter asks the user to fill a structured set of inputs. A nil
// map means the user cancelled; otherwise the map carries one value per
// input key.
type FormPresenter interface {
	PromptForm(ctx context.Context, req *protocol.PromptFormRequest) (map[string]string, error)
}

// TextPresenterFunc adapts a function to TextPresenter.
type TextPresenterFunc func(ctx context.Context, req *protocol.PromptTextRequest) (*string, error)

func (f TextPresenterFunc) PromptText(ctx context.Context, req *protocol.PromptTextRequest) (*string, error) {
	return f(ctx, req)
}

// FormPresenterFunc adapts a function to FormPresenter.
type FormPresenterFunc func(ctx context.Context, req *protocol.PromptFormRequest) (map[string]string, error)

func (f FormPresenterFunc) PromptForm(ctx context.Context, req *protocol.PromptFormRequest) (map[string]string, error) {
	return f(ctx, req)
}
