package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed agent.json
var agentCardTemplate []byte

// LoadAgentCard returns the agent card with its url pointing at endpoint.
func LoadAgentCard(endpoint string) ([]byte, error) {
	var card map[string]any
	if err := json.Unmarshal(agentCardTemplate, &card); err != nil {
		return nil, fmt.Errorf("failed to parse agent card: %w", err)
	}
	card["url"] = endpoint
	data, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent card: %w", err)
	}
	return data, nil
}
