package protocol

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTrip_PromptText(t *testing.T) {
	env := NewEnvelope("copy-as-curl", "ref-1", json.RawMessage(`{"windowId":"w1"}`), &PromptTextRequest{
		ID:          "p1",
		Title:       "Name this request",
		Placeholder: "My Request",
		Label:       "Name",
	})

	b, err := json.Marshal(env)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, env.ID, got.ID)
	require.Empty(t, got.ReplyID)
	require.Equal(t, "copy-as-curl", got.PluginName)
	require.Equal(t, "ref-1", got.PluginRefID)
	require.JSONEq(t, `{"windowId":"w1"}`, string(got.Context))

	req, ok := got.Payload.(*PromptTextRequest)
	require.True(t, ok)
	require.Equal(t, "Name this request", req.Title)
	require.Equal(t, "My Request", req.Placeholder)
}

func TestEnvelope_RoundTrip_FormResponse(t *testing.T) {
	env := NewEnvelope("importer", "", nil, &PromptFormResponse{
		Values: map[string]string{"name": "Ann", "age": "30"},
	})

	b, err := json.Marshal(env)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	resp, ok := got.Payload.(*PromptFormResponse)
	require.True(t, ok)
	require.Equal(t, map[string]string{"name": "Ann", "age": "30"}, resp.Values)
}

func TestEnvelope_NullValueOnCancel(t *testing.T) {
	env := NewEnvelope("p", "", nil, &PromptTextResponse{Value: nil})
	b, err := json.Marshal(env)
	require.NoError(t, err)

	var raw struct {
		Payload map[string]json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Equal(t, "null", string(raw.Payload["value"]))

	got, err := Decode(b)
	require.NoError(t, err)
	resp, ok := got.Payload.(*PromptTextResponse)
	require.True(t, ok)
	require.Nil(t, resp.Value)
}

func TestDecode_UnknownTag(t *testing.T) {
	_, err := Decode([]byte(`{"id":"x","payload":{"type":"prompt_color_request"}}`))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownPayload))
}

func TestDecode_Malformed(t *testing.T) {
	cases := []string{
		`{"id":"x"}`,
		`{"id":"x","payload":{}}`,
		`{"id":"x","payload":{"title":"no tag"}}`,
		`{"id":"x","payload":"nope"}`,
	}
	for _, c := range cases {
		_, err := Decode([]byte(c))
		require.Error(t, err, c)
		require.True(t, errors.Is(err, ErrMalformed), c)
	}
}

func TestNewReply_CopiesOriginMetadata(t *testing.T) {
	orig := NewEnvelope("exporter", "ref-9", json.RawMessage(`{"tab":3}`), &PromptTextRequest{ID: "p", Title: "t"})
	v := "abc"
	reply := NewReply(orig, &PromptTextResponse{Value: &v})

	require.NotEmpty(t, reply.ID)
	require.NotEqual(t, orig.ID, reply.ID)
	require.Equal(t, orig.ID, reply.ReplyID)
	require.Equal(t, orig.PluginName, reply.PluginName)
	require.Equal(t, orig.PluginRefID, reply.PluginRefID)
	require.Equal(t, orig.Context, reply.Context)
	require.Equal(t, orig.ID, orig.ReplyChannel())
}

func TestNewID_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
