package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrUnknownPayload = errors.New("unknown payload type")
	ErrMalformed      = errors.New("malformed envelope")
)

// Envelope is the unit of cross-process communication. A fresh envelope
// carries a newly assigned ID; a reply additionally carries ReplyID equal
// to the ID of the envelope it answers. PluginName, PluginRefID, and
// Context are origin metadata forwarded verbatim into replies and never
// interpreted by the correlation layer.
type Envelope struct {
	ID          string          `json:"id"`
	ReplyID     string          `json:"replyId,omitempty"`
	PluginName  string          `json:"pluginName,omitempty"`
	PluginRefID string          `json:"pluginRefId,omitempty"`
	Context     json.RawMessage `json:"context,omitempty"`
	Payload     Payload         `json:"payload"`
}

// NewEnvelope builds a fresh (non-reply) envelope with a generated id.
func NewEnvelope(pluginName, pluginRefID string, context json.RawMessage, payload Payload) *Envelope {
	return &Envelope{
		ID:          NewID(),
		PluginName:  pluginName,
		PluginRefID: pluginRefID,
		Context:     context,
		Payload:     payload,
	}
}

// NewReply builds the reply to orig: fresh id, ReplyID linking back to
// orig, origin metadata copied verbatim.
func NewReply(orig *Envelope, payload Payload) *Envelope {
	return &Envelope{
		ID:          NewID(),
		ReplyID:     orig.ID,
		PluginName:  orig.PluginName,
		PluginRefID: orig.PluginRefID,
		Context:     orig.Context,
		Payload:     payload,
	}
}

// ReplyChannel is the channel a reply to this envelope must be published
// on. By convention it is the envelope's own id.
func (e *Envelope) ReplyChannel() string {
	return e.ID
}

type envelopeJSON struct {
	ID          string          `json:"id"`
	ReplyID     string          `json:"replyId,omitempty"`
	PluginName  string          `json:"pluginName,omitempty"`
	PluginRefID string          `json:"pluginRefId,omitempty"`
	Context     json.RawMessage `json:"context,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

func (e *Envelope) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, errors.Wrap(ErrMalformed, "nil payload")
	}
	raw, err := marshalPayload(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeJSON{
		ID:          e.ID,
		ReplyID:     e.ReplyID,
		PluginName:  e.PluginName,
		PluginRefID: e.PluginRefID,
		Context:     e.Context,
		Payload:     raw,
	})
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var ej envelopeJSON
	if err := json.Unmarshal(b, &ej); err != nil {
		return errors.Wrap(err, "parse envelope")
	}
	payload, err := unmarshalPayload(ej.Payload)
	if err != nil {
		return err
	}
	e.ID = ej.ID
	e.ReplyID = ej.ReplyID
	e.PluginName = ej.PluginName
	e.PluginRefID = ej.PluginRefID
	e.Context = ej.Context
	e.Payload = payload
	return nil
}

// Decode parses an envelope off the wire. Unknown payload tags return an
// error satisfying errors.Is(err, ErrUnknownPayload); missing or invalid
// payloads return ErrMalformed. Callers decide the drop policy.
func Decode(b []byte) (*Envelope, error) {
	var e Envelope
	if err := e.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return &e, nil
}

func marshalPayload(p Payload) (json.RawMessage, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.Wrap(err, "reshape payload")
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	tag, err := json.Marshal(p.PayloadType())
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload tag")
	}
	fields["type"] = tag
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tagged payload")
	}
	return out, nil
}

func unmarshalPayload(raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrMalformed, "missing payload")
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(ErrMalformed, "parse payload")
	}
	if head.Type == "" {
		return nil, errors.Wrap(ErrMalformed, "missing payload type")
	}

	var p Payload
	switch head.Type {
	case TypePromptTextRequest:
		p = &PromptTextRequest{}
	case TypePromptFormRequest:
		p = &PromptFormRequest{}
	case TypeShowToastRequest:
		p = &ShowToastRequest{}
	case TypeOpenSettingsRequest:
		p = &OpenSettingsRequest{}
	case TypePromptTextResponse:
		p = &PromptTextResponse{}
	case TypePromptFormResponse:
		p = &PromptFormResponse{}
	default:
		return nil, errors.Wrapf(ErrUnknownPayload, "tag %q", head.Type)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "parse %s payload", head.Type)
	}
	return p, nil
}
