package a2a

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
)

// OpenerRequest is the contact plus generation switches carried in a message.
type OpenerRequest struct {
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	Market        string `json:"market,omitempty"`
	Language      string `json:"language,omitempty"`
	Seed          *int64 `json:"seed,omitempty"`
	SkipSignature bool   `json:"skip_signature,omitempty"`
	SkipIntro     bool   `json:"skip_intro,omitempty"`
}

func (r OpenerRequest) Contact() models.Contact {
	return models.Contact{
		Name:     r.Name,
		Role:     models.Role(r.Role),
		Market:   r.Market,
		Language: r.Language,
	}
}

func (r OpenerRequest) Options() persona.GenerateOptions {
	return persona.GenerateOptions{
		Seed:                r.Seed,
		SkipSignaturePhrase: r.SkipSignature,
		SkipProspectIntro:   r.SkipIntro,
	}
}

// extractOpenerRequest looks through the message parts, most recent last, and
// returns the last one that describes a contact.
func extractOpenerRequest(msg A2AMessage) (OpenerRequest, bool) {
	var (
		found OpenerRequest
		ok    bool
	)
	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			if req, parsed := parseOpenerText(part.Text); parsed {
				found, ok = req, true
			}
		case "data":
			if req, parsed := parseOpenerData(part.Data); parsed {
				found, ok = req, true
			}
		}
	}
	return found, ok
}

func parseOpenerData(data json.RawMessage) (OpenerRequest, bool) {
	if len(data) == 0 {
		return OpenerRequest{}, false
	}

	if req, err := decodeOpenerJSON(data); err == nil {
		return req, true
	}

	// Conversation history: an array of parts, newest last.
	var history []MessagePart
	if err := json.Unmarshal(data, &history); err != nil {
		return OpenerRequest{}, false
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind != "text" {
			continue
		}
		if req, ok := parseOpenerText(history[i].Text); ok {
			return req, true
		}
	}
	return OpenerRequest{}, false
}

func parseOpenerText(text string) (OpenerRequest, bool) {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "<p>", "")
	text = strings.ReplaceAll(text, "</p>", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return OpenerRequest{}, false
	}

	if strings.HasPrefix(text, "{") {
		req, err := decodeOpenerJSON([]byte(text))
		if err != nil {
			return OpenerRequest{}, false
		}
		return req, true
	}
	return parseSimpleContact(text)
}

// decodeOpenerJSON accepts a single object carrying only contact keys, so
// other payloads such as a previous reply's {"message", "meta"} are skipped.
func decodeOpenerJSON(data []byte) (OpenerRequest, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return OpenerRequest{}, errors.New("contact must be a JSON object")
	}
	var req OpenerRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return OpenerRequest{}, err
	}
	if dec.More() {
		return OpenerRequest{}, errors.New("trailing data after contact object")
	}
	return req, nil
}

// parseSimpleContact reads "key: value, key: value" text such as
// "name: Tiago, role: marmorista, market: BR, seed: 111".
func parseSimpleContact(text string) (OpenerRequest, bool) {
	var req OpenerRequest
	known := false

	for _, pair := range strings.Split(text, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "name":
			req.Name = value
		case "role":
			req.Role = value
		case "market":
			req.Market = value
		case "language", "lang":
			req.Language = value
		case "seed":
			seed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}
			req.Seed = &seed
		case "skip_signature":
			req.SkipSignature, _ = strconv.ParseBool(value)
		case "skip_intro":
			req.SkipIntro, _ = strconv.ParseBool(value)
		default:
			continue
		}
		known = true
	}
	return req, known
}
