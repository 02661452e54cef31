package host

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// Runtime executes JavaScript plugins, each in its own goja VM, and hands
// them the prompt/toast/settings capabilities. A plugin suspends its own
// VM while a prompt is on screen; other plugins keep running.
type Runtime struct {
	invoker Invoker
	logger  zerolog.Logger

	mu  sync.Mutex
	vms []*goja.Runtime
}

// InitError records one plugin that failed to start.
type InitError struct {
	Plugin string
	Err    error
}

func NewRuntime(invoker Invoker, logger zerolog.Logger) *Runtime {
	return &Runtime{invoker: invoker, logger: logger}
}

// InitializeAll runs every manifest plugin concurrently and waits for all
// of them. One plugin failing does not abort the others; each failure is
// reported back and additionally surfaced to the user as a danger toast.
func (r *Runtime) InitializeAll(ctx context.Context, m *Manifest) []InitError {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []InitError

	for _, spec := range m.Plugins {
		wg.Add(1)
		go func(spec PluginSpec) {
			defer wg.Done()
			if err := r.RunPlugin(ctx, spec); err != nil {
				r.logger.Error().Err(err).Str("plugin", spec.Name).Msg("plugin failed")
				mu.Lock()
				failures = append(failures, InitError{Plugin: spec.Name, Err: err})
				mu.Unlock()
			}
		}(spec)
	}
	wg.Wait()

	for _, f := range failures {
		toast := protocol.ShowToastRequest{
			Message: fmt.Sprintf("Failed to start plugin '%s': %v", f.Plugin, f.Err),
			Color:   protocol.ColorDanger,
			Icon:    "alert-triangle",
			Timeout: 10000,
		}
		if err := r.invoker.ShowToast(ctx, toast); err != nil {
			r.logger.Error().Err(err).Str("plugin", f.Plugin).Msg("failed to emit failure toast")
		}
	}
	return failures
}

// RunPlugin executes one plugin script to completion.
func (r *Runtime) RunPlugin(ctx context.Context, spec PluginSpec) error {
	src, err := os.ReadFile(spec.Path)
	if err != nil {
		return errors.Wrap(err, "read plugin source")
	}

	vm := goja.New()
	r.track(vm)
	defer r.untrack(vm)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt("host shutting down")
		case <-done:
		}
	}()

	if err := r.bind(ctx, vm, spec); err != nil {
		return err
	}
	if _, err := vm.RunScript(spec.Name, string(src)); err != nil {
		return errors.Wrapf(err, "run plugin %s", spec.Name)
	}
	return nil
}

// Terminate interrupts every running plugin VM.
func (r *Runtime) Terminate() {
	r.mu.Lock()
	vms := append([]*goja.Runtime{}, r.vms...)
	r.mu.Unlock()
	for _, vm := range vms {
		vm.Interrupt("plugin host terminated")
	}
}

func (r *Runtime) track(vm *goja.Runtime) {
	r.mu.Lock()
	r.vms = append(r.vms, vm)
	r.mu.Unlock()
}

func (r *Runtime) untrack(vm *goja.Runtime) {
	r.mu.Lock()
	for i, v := range r.vms {
		if v == vm {
			r.vms = append(r.vms[:i], r.vms[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
}

func (r *Runtime) bind(ctx context.Context, vm *goja.Runtime, spec PluginSpec) error {
	origin := Origin{PluginName: spec.Name, PluginRefID: spec.RefID}
	logger := r.logger.With().Str("plugin", spec.Name).Logger()

	promptObj := vm.NewObject()
	if err := promptObj.Set("text", func(opts map[string]interface{}) (interface{}, error) {
		value, err := r.invoker.PromptText(ctx, origin, textRequestFromOpts(opts))
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return *value, nil
	}); err != nil {
		return errors.Wrap(err, "bind prompt.text")
	}
	if err := promptObj.Set("form", func(opts map[string]interface{}) (interface{}, error) {
		values, err := r.invoker.PromptForm(ctx, origin, formRequestFromOpts(opts))
		if err != nil {
			return nil, err
		}
		if values == nil {
			return nil, nil
		}
		return values, nil
	}); err != nil {
		return errors.Wrap(err, "bind prompt.form")
	}
	if err := vm.Set("prompt", promptObj); err != nil {
		return errors.Wrap(err, "bind prompt")
	}

	toastObj := vm.NewObject()
	if err := toastObj.Set("show", func(opts map[string]interface{}) error {
		return r.invoker.ShowToast(ctx, toastRequestFromOpts(opts))
	}); err != nil {
		return errors.Wrap(err, "bind toast.show")
	}
	if err := vm.Set("toast", toastObj); err != nil {
		return errors.Wrap(err, "bind toast")
	}

	settingsObj := vm.NewObject()
	if err := settingsObj.Set("open", func() error {
		return r.invoker.OpenSettings(ctx)
	}); err != nil {
		return errors.Wrap(err, "bind settings.open")
	}
	if err := vm.Set("settings", settingsObj); err != nil {
		return errors.Wrap(err, "bind settings")
	}

	consoleObj := vm.NewObject()
	if err := consoleObj.Set("log", func(args ...interface{}) {
		logger.Info().Msg(fmt.Sprint(args...))
	}); err != nil {
		return errors.Wrap(err, "bind console.log")
	}
	if err := vm.Set("console", consoleObj); err != nil {
		return errors.Wrap(err, "bind console")
	}

	return nil
}

func optString(opts map[string]interface{}, key string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}

func optInt64(opts map[string]interface{}, key string) int64 {
	switch v := opts[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func textRequestFromOpts(opts map[string]interface{}) *protocol.PromptTextRequest {
	return &protocol.PromptTextRequest{
		ID:           optString(opts, "id"),
		Title:        optString(opts, "title"),
		Description:  optString(opts, "description"),
		Placeholder:  optString(opts, "placeholder"),
		Label:        optString(opts, "label"),
		DefaultValue: optString(opts, "defaultValue"),
	}
}

func formRequestFromOpts(opts map[string]interface{}) *protocol.PromptFormRequest {
	req := &protocol.PromptFormRequest{
		ID:          optString(opts, "id"),
		Title:       optString(opts, "title"),
		Description: optString(opts, "description"),
		ConfirmText: optString(opts, "confirmText"),
		CancelText:  optString(opts, "cancelText"),
	}
	inputs, _ := opts["inputs"].([]interface{})
	for _, raw := range inputs {
		in, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		req.Inputs = append(req.Inputs, protocol.FormInput{
			Key:          optString(in, "key"),
			Label:        optString(in, "label"),
			Placeholder:  optString(in, "placeholder"),
			DefaultValue: optString(in, "defaultValue"),
		})
	}
	return req
}

func toastRequestFromOpts(opts map[string]interface{}) protocol.ShowToastRequest {
	return protocol.ShowToastRequest{
		Message: optString(opts, "message"),
		Color:   optString(opts, "color"),
		Icon:    optString(opts, "icon"),
		Timeout: optInt64(opts, "timeout"),
		At:      optString(opts, "at"),
	}
}
