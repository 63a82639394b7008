package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleContact(t *testing.T) {
	req, ok := parseSimpleContact("name: Tiago, role: marmorista, market: BR, lang: pt, seed: 111, skip_signature: true")
	require.True(t, ok)

	assert.Equal(t, "Tiago", req.Name)
	assert.Equal(t, "marmorista", req.Role)
	assert.Equal(t, "BR", req.Market)
	assert.Equal(t, "pt", req.Language)
	require.NotNil(t, req.Seed)
	assert.Equal(t, int64(111), *req.Seed)
	assert.True(t, req.SkipSignature)
	assert.False(t, req.SkipIntro)

	_, ok = parseSimpleContact("just chatting: nothing useful")
	assert.False(t, ok)

	req, ok = parseSimpleContact("market: US, seed: soon")
	require.True(t, ok)
	assert.Nil(t, req.Seed)
}

func TestExtractOpenerRequestUsesLatestPart(t *testing.T) {
	history, err := json.Marshal([]MessagePart{
		TextPart("market: EU"),
		TextPart("Generating..."),
		TextPart("market: LATAM, role: distribuidor"),
	})
	require.NoError(t, err)

	msg := A2AMessage{Parts: []MessagePart{
		TextPart("market: BR"),
		{Kind: "data", Data: history},
	}}
	req, ok := extractOpenerRequest(msg)
	require.True(t, ok)
	assert.Equal(t, "LATAM", req.Market)
	assert.Equal(t, "distribuidor", req.Role)

	opts := req.Options()
	assert.Nil(t, opts.Seed)
	assert.Equal(t, "LATAM", req.Contact().Market)
}

func TestExtractOpenerRequestNothingUsable(t *testing.T) {
	_, ok := extractOpenerRequest(A2AMessage{Parts: []MessagePart{
		TextPart("   "),
		{Kind: "data", Data: json.RawMessage(`"plain string"`)},
	}})
	assert.False(t, ok)
}

func TestParseOpenerDataRejectsForeignObjects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"previous reply", `{"message": "Bom dia! Tudo bem?", "meta": {"market": "BR", "language": "pt"}}`},
		{"contact with extra key", `{"market": "BR", "priority": "high"}`},
		{"null", `null`},
		{"two objects", `{"market": "BR"} {"market": "US"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseOpenerData(json.RawMessage(tt.data))
			assert.False(t, ok)
		})
	}

	req, ok := parseOpenerData(json.RawMessage(`{}`))
	require.True(t, ok)
	assert.Equal(t, OpenerRequest{}, req)

	_, ok = parseOpenerText(`{"message": "hi", "meta": {}}`)
	assert.False(t, ok)
}
