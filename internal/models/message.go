package models

// GeneratedMessage is the composed opener plus how it was built.
type GeneratedMessage struct {
	Message string      `json:"message"`
	Meta    MessageMeta `json:"meta"`
}

type MessageMeta struct {
	Market        string `json:"market"`
	Language      string `json:"language"`
	Role          Role   `json:"role"`
	Seed          *int64 `json:"seed"`
	Greeting      string `json:"greeting"`
	UsedSignature string `json:"used_signature"`
	CTA           string `json:"cta"`
}

// ChatRequest is the body accepted by the chat relay.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
}

type ChatResponse struct {
	AssistantMessage string `json:"assistant_message"`
	ThreadID         string `json:"thread_id"`
	RunID            string `json:"run_id"`
}
