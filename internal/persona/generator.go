package persona

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"go.uber.org/zap"
)

// DefaultSeparator joins the fragments of an opener.
const DefaultSeparator = " — "

var rapportLines = map[string][]string{
	"pt": {"Tudo bem?", "Como você está?", "Como tem sido as últimas semanas por aí?"},
	"en": {"Hope you're well!", "How have the last weeks been on your side?"},
	"es": {"¿Todo bien?", "¿Cómo han sido estas últimas semanas por ahí?"},
}

var introLines = map[string][]string{
	"pt": {
		"Sou o Leandro, da Luchoa; trabalhamos com mármores, granitos e quartzitos exóticos.",
		"Aqui é o Leandro (Luchoa). Atendo com padrão de exportação e curadoria de lotes.",
	},
	"en": {
		"This is Leandro from Luchoa; premium natural stones with export-grade finishing.",
		"Leandro here (Luchoa) — we curate export-grade lots to match your demand.",
	},
	"es": {
		"Soy Leandro, de Luchoa; trabajamos con piedras naturales premium.",
		"Leandro (Luchoa) por aquí: curaduría de lotes con estándar de exportación.",
	},
}

// literalsFor picks the pt or en set, and the es set for any other language.
func literalsFor(table map[string][]string, language string) []string {
	if lines, ok := table[language]; ok {
		return lines
	}
	return table["es"]
}

// IntroLines returns every self-introduction literal the generator can emit.
func IntroLines() []string {
	var out []string
	for _, lang := range []string{"pt", "en", "es"} {
		out = append(out, introLines[lang]...)
	}
	return out
}

// GenerateOptions tunes a single Generate call. The zero value includes the
// signature phrase and the prospect introduction and draws a fresh seed.
type GenerateOptions struct {
	Seed                *int64
	SkipSignaturePhrase bool
	SkipProspectIntro   bool
}

// Generator composes opening messages from an immutable profile. It is safe
// for concurrent use.
type Generator struct {
	profile   *Profile
	separator string
	logger    *zap.Logger
}

type Option func(*Generator)

// WithSeparator overrides the string placed between fragments.
func WithSeparator(sep string) Option {
	return func(g *Generator) {
		g.separator = sep
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator loads the profile at path. A missing or malformed document is
// an error; there is no partially configured generator.
func NewGenerator(path string, opts ...Option) (*Generator, error) {
	p, err := LoadProfile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return NewGeneratorFromProfile(p, opts...), nil
}

func NewGeneratorFromProfile(p *Profile, opts ...Option) *Generator {
	g := &Generator{
		profile:   p,
		separator: DefaultSeparator,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Profile exposes the read-only profile backing the generator.
func (g *Generator) Profile() *Profile {
	return g.profile
}

// Generate composes one opener for contact.
func (g *Generator) Generate(contact models.Contact, opts GenerateOptions) (models.GeneratedMessage, error) {
	rng := newRNGContext(opts.Seed)

	c := contact.Normalize()
	market := c.Market
	language := c.Language
	if language == "" {
		language = g.profile.LanguageForMarket(market)
	}
	role := c.Role

	if !g.profile.HasMarket(market) {
		g.logger.Debug("unknown market, using defaults",
			zap.String("market", market),
			zap.String("language", language))
	}

	ctas, err := g.profile.CTAs(language)
	if err != nil {
		return models.GeneratedMessage{}, fmt.Errorf("failed to resolve ctas: %w", err)
	}
	closings, err := g.profile.Closings(language)
	if err != nil {
		return models.GeneratedMessage{}, fmt.Errorf("failed to resolve closings: %w", err)
	}

	greeting := rng.choose(g.profile.GreetingsForMarket(market))
	opener := greeting
	if c.Name != "" {
		opener += " " + c.Name + ","
	}
	opener = strings.TrimSpace(opener + " " + rng.choose(literalsFor(rapportLines, language)))

	intro := ""
	if role.IsProspect() && !opts.SkipProspectIntro {
		intro = rng.choose(literalsFor(introLines, language))
	}

	hook := rng.choose(g.profile.RoleHooks(market, string(role)))

	signature := ""
	if !opts.SkipSignaturePhrase {
		signature = rng.choose(g.profile.SignaturePhrases())
	}

	cta := rng.choose(ctas)

	closing := ""
	if len(closings) > 0 {
		closing = closings[0]
	}

	parts := make([]string, 0, 6)
	for _, p := range []string{opener, intro, hook, signature, cta, closing} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	message := strings.Join(parts, g.separator)
	message = Enforce(message, g.profile.BannedPhrases())
	message = RedactMarket(market, message)

	g.logger.Debug("composed opener",
		zap.String("market", market),
		zap.String("language", language),
		zap.String("role", string(role)),
		zap.Int64("seed", rng.seed),
		zap.Int("fragments", len(parts)))

	var supplied *int64
	if opts.Seed != nil {
		s := *opts.Seed
		supplied = &s
	}

	return models.GeneratedMessage{
		Message: message,
		Meta: models.MessageMeta{
			Market:        market,
			Language:      language,
			Role:          role,
			Seed:          supplied,
			Greeting:      greeting,
			UsedSignature: signature,
			CTA:           cta,
		},
	}, nil
}

// GenerateOpeningMessage composes an opener with the built-in profile and
// returns only the text.
func GenerateOpeningMessage(contact models.Contact, seed *int64) (string, error) {
	p, err := DefaultProfile()
	if err != nil {
		return "", err
	}
	msg, err := NewGeneratorFromProfile(p).Generate(contact, GenerateOptions{Seed: seed})
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}
