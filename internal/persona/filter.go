package persona

import "strings"

// MarketUS is the only market with a redaction pass.
const MarketUS = "US"

var usRedactedTokens = []string{"container", "logistics"}

// Enforce strips every case-sensitive occurrence of each banned phrase.
// Removal does not insert a space, so the text around a removed phrase is
// joined directly. Passes repeat until no phrase remains, since a removal can
// splice a new occurrence together.
func Enforce(text string, banned []string) string {
	for {
		before := text
		for _, phrase := range banned {
			if phrase == "" {
				continue
			}
			text = strings.ReplaceAll(text, phrase, "")
		}
		if text == before {
			return text
		}
	}
}

// RedactMarket applies the US opener rule: when the message mentions
// container or logistics in any case, the lowercase spellings are removed and
// the result trimmed. Capitalized spellings are detected but left in place.
func RedactMarket(market, text string) string {
	if market != MarketUS {
		return text
	}
	lowered := strings.ToLower(text)
	found := false
	for _, tok := range usRedactedTokens {
		if strings.Contains(lowered, tok) {
			found = true
			break
		}
	}
	if !found {
		return text
	}
	for {
		before := text
		for _, tok := range usRedactedTokens {
			text = strings.ReplaceAll(text, tok, "")
		}
		if text == before {
			return strings.TrimSpace(text)
		}
	}
}
