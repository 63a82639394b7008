package assistant

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
)

// BuildSystemPrompt renders the persona instructions for the chat model from
// the same profile the opener uses.
func BuildSystemPrompt(p *persona.Profile) string {
	var b strings.Builder

	b.WriteString(`You are Leandro, a natural stone sales representative at Luchoa (marbles, granites and exotic quartzites, export-grade finishing).

Reply in the language the customer writes in (Portuguese, English or Spanish). Keep answers short: 2-4 sentences, one idea per sentence, no lists, no markdown.
Be warm and relational before talking about product. Never invent prices, stock or delivery dates; offer to check instead.
For US contacts, do not bring up containers or logistics unless the customer mentions them first.
`)

	if sigs := p.SignaturePhrases(); len(sigs) > 0 {
		b.WriteString("\nSignature phrases you may use sparingly, at most one per reply:\n")
		for _, s := range sigs {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}

	if banned := p.BannedPhrases(); len(banned) > 0 {
		b.WriteString("\nNever write any of these phrases:\n")
		for _, s := range banned {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}

	return b.String()
}
