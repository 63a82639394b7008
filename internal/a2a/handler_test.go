package a2a

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *persona.Generator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p, err := persona.DefaultProfile()
	require.NoError(t, err)
	gen := persona.NewGeneratorFromProfile(p)

	h := NewA2AHandler(gen, "http://example.test/a2a/opener", nil)
	router := gin.New()
	router.GET("/.well-known/agent.json", h.ServeAgentCard)
	router.POST("/a2a/opener", h.HandleOpener)
	return router, gen
}

type rpcResult struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  *TaskResult   `json:"result"`
	Error   *JSONRPCError `json:"error"`
}

func post(t *testing.T, router *gin.Engine, body string) rpcResult {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/a2a/opener", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out rpcResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleOpenerDataPart(t *testing.T) {
	router, gen := newTestRouter(t)

	body := `{
		"jsonrpc": "2.0",
		"id": "req-1",
		"method": "message/send",
		"params": {
			"message": {
				"kind": "message",
				"role": "user",
				"parts": [{"kind": "data", "data": {"name": "Tiago", "role": "marmorista", "market": "BR", "seed": 111}}]
			}
		}
	}`
	out := post(t, router, body)

	require.Nil(t, out.Error)
	require.NotNil(t, out.Result)
	assert.Equal(t, "req-1", out.ID)
	assert.Equal(t, StateCompleted, out.Result.Status.State)

	s := int64(111)
	want, err := gen.Generate(models.Contact{Name: "Tiago", Role: "marmorista", Market: "BR"}, persona.GenerateOptions{Seed: &s})
	require.NoError(t, err)

	require.NotNil(t, out.Result.Status.Message)
	assert.Equal(t, want.Message, out.Result.Status.Message.Parts[0].Text)

	require.Len(t, out.Result.Artifacts, 1)
	parts := out.Result.Artifacts[0].Parts
	require.Len(t, parts, 2)
	var meta models.GeneratedMessage
	require.NoError(t, json.Unmarshal(parts[1].Data, &meta))
	assert.Equal(t, want.Meta, meta.Meta)
}

func TestHandleOpenerTextPart(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"jsonrpc": "2.0",
		"id": 7,
		"method": "agent/task",
		"params": {"message": {"kind": "message", "role": "user", "parts": [
			{"kind": "text", "text": "<p>name: John, role: distributor, market: US, seed: 1</p>"}
		]}}
	}`
	out := post(t, router, body)

	require.NotNil(t, out.Result)
	assert.Equal(t, StateCompleted, out.Result.Status.State)
	assert.Equal(t, "7", out.Result.ID)
	text := out.Result.Status.Message.Parts[0].Text
	assert.Contains(t, text, "John,")
	assert.NotContains(t, text, "container")
	assert.NotContains(t, text, "logistics")
}

func TestHandleOpenerDirectMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"message": {"kind": "message", "role": "user", "parts": [{"kind": "text", "text": "{\"market\": \"LATAM\", \"role\": \"distribuidor\", \"seed\": 5}"}]}}`
	out := post(t, router, body)

	require.NotNil(t, out.Result)
	assert.Equal(t, "direct-message", out.Result.ID)
	assert.Equal(t, StateCompleted, out.Result.Status.State)
}

func TestHandleOpenerWithoutContact(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"jsonrpc": "2.0", "id": "x", "method": "message/send", "params": {"message": {"kind": "message", "role": "user", "parts": [{"kind": "text", "text": "hello there"}]}}}`
	out := post(t, router, body)

	require.NotNil(t, out.Result)
	assert.Equal(t, StateInputRequired, out.Result.Status.State)
}

func TestHandleOpenerErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"jsonrpc": `, CodeParseError},
		{"wrong version", `{"jsonrpc": "1.0", "id": "1", "method": "message/send"}`, CodeInvalidRequest},
		{"unknown method", `{"jsonrpc": "2.0", "id": "1", "method": "tasks/cancel"}`, CodeMethodNotFound},
		{"missing params", `{"jsonrpc": "2.0", "id": "1", "method": "message/send"}`, CodeInvalidParams},
		{"bad params", `{"jsonrpc": "2.0", "id": "1", "method": "message/send", "params": {"message": "nope"}}`, CodeInvalidParams},
		{"empty direct message", `{}`, CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := post(t, router, tt.body)
			require.NotNil(t, out.Error)
			assert.Equal(t, tt.code, out.Error.Code)
			assert.Nil(t, out.Result)
		})
	}
}

func TestHandleOpenerMissingFragments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p, err := persona.ParseProfile([]byte(`{"markets": {}, "ctas": {}, "closings": {}}`), "json")
	require.NoError(t, err)
	h := NewA2AHandler(persona.NewGeneratorFromProfile(p), "", nil)
	router := gin.New()
	router.POST("/a2a/opener", h.HandleOpener)

	out := post(t, router, `{"jsonrpc": "2.0", "id": "1", "method": "message/send", "params": {"message": {"parts": [{"kind": "data", "data": {}}]}}}`)
	require.NotNil(t, out.Result)
	assert.Equal(t, StateFailed, out.Result.Status.State)
}

func TestServeAgentCard(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://example.test/a2a/opener")
}

func TestHandleOpenerIgnoresPreviousReply(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"jsonrpc": "2.0", "id": "r", "method": "message/send", "params": {"message": {"kind": "message", "role": "user", "parts": [
		{"kind": "data", "data": {"message": "Bom dia! Tudo bem? — Abraço, Leandro.", "meta": {"market": "BR", "language": "pt", "role": "prospect"}}}
	]}}}`
	out := post(t, router, body)

	require.NotNil(t, out.Result)
	assert.Equal(t, StateInputRequired, out.Result.Status.State)
}
