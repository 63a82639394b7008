package persona

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidProfile is returned when a profile document cannot be read,
	// decoded, or does not have the expected shape.
	ErrInvalidProfile = errors.New("invalid persona profile")

	// ErrMissingFragments is returned at generation time when neither the
	// requested language nor the pt fallback has CTAs or closings.
	ErrMissingFragments = errors.New("missing required fragments")
)

const (
	FallbackLanguage = "pt"
	DefaultGreeting  = "Bom dia! Tudo bem?"
	defaultRole      = "prospect"
)

//go:embed profiles/default.json
var embeddedProfiles embed.FS

// marketDocument holds the market-scoped fragments.
type marketDocument struct {
	Language         string              `json:"language,omitempty" yaml:"language,omitempty"`
	GreetingVariants []string            `json:"greeting_variants,omitempty" yaml:"greeting_variants,omitempty"`
	RoleHooks        map[string][]string `json:"role_hooks,omitempty" yaml:"role_hooks,omitempty"`
}

// profileDocument is the on-disk shape of a persona profile.
type profileDocument struct {
	Markets            map[string]marketDocument `json:"markets" yaml:"markets"`
	CallsToAction      map[string][]string       `json:"ctas" yaml:"ctas"`
	ClosingLines       map[string][]string       `json:"closings" yaml:"closings"`
	LanguageSignatures []string                  `json:"language_signatures,omitempty" yaml:"language_signatures,omitempty"`
	Banned             []string                  `json:"banned_phrases,omitempty" yaml:"banned_phrases,omitempty"`
}

// Profile is the declarative persona configuration. Its document is only
// reachable through accessors, which hand out copies, so a loaded Profile can
// be shared freely.
type Profile struct {
	doc profileDocument
}

// LoadProfile reads a profile document from disk. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidProfile, path, err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	p, err := ParseProfile(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes a profile document. Unknown keys are rejected at every
// level, and markets, ctas and closings must be present.
func ParseProfile(data []byte, format string) (*Profile, error) {
	var doc profileDocument
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", ErrInvalidProfile, err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("%w: trailing data after profile document", ErrInvalidProfile)
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidProfile, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidProfile, format)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &Profile{doc: doc}, nil
}

func (d *profileDocument) validate() error {
	switch {
	case d.Markets == nil:
		return fmt.Errorf("%w: markets is required", ErrInvalidProfile)
	case d.CallsToAction == nil:
		return fmt.Errorf("%w: ctas is required", ErrInvalidProfile)
	case d.ClosingLines == nil:
		return fmt.Errorf("%w: closings is required", ErrInvalidProfile)
	}
	return nil
}

var defaultProfile = sync.OnceValues(func() (*Profile, error) {
	data, err := embeddedProfiles.ReadFile("profiles/default.json")
	if err != nil {
		return nil, fmt.Errorf("%w: embedded profile: %w", ErrInvalidProfile, err)
	}
	return ParseProfile(data, "json")
})

// DefaultProfile returns the profile compiled into the binary.
func DefaultProfile() (*Profile, error) {
	return defaultProfile()
}

func (p *Profile) market(market string) (marketDocument, bool) {
	m, ok := p.doc.Markets[market]
	return m, ok
}

// HasMarket reports whether the market has its own entry.
func (p *Profile) HasMarket(market string) bool {
	_, ok := p.market(market)
	return ok
}

// LanguageForMarket returns the market's language or pt.
func (p *Profile) LanguageForMarket(market string) string {
	m, _ := p.market(market)
	if m.Language == "" {
		return FallbackLanguage
	}
	return m.Language
}

// GreetingsForMarket returns the market's greetings. A market without the key
// gets the single default greeting; an explicitly empty list stays empty.
func (p *Profile) GreetingsForMarket(market string) []string {
	m, _ := p.market(market)
	if m.GreetingVariants == nil {
		return []string{DefaultGreeting}
	}
	return slices.Clone(m.GreetingVariants)
}

// RoleHooks resolves role, then prospect, then nothing.
func (p *Profile) RoleHooks(market, role string) []string {
	m, _ := p.market(market)
	role = strings.ToLower(role)
	if role == "" {
		role = defaultRole
	}
	if hooks, ok := m.RoleHooks[role]; ok {
		return slices.Clone(hooks)
	}
	if hooks, ok := m.RoleHooks[defaultRole]; ok {
		return slices.Clone(hooks)
	}
	return []string{}
}

func (p *Profile) CTAs(language string) ([]string, error) {
	return lookupLanguage(p.doc.CallsToAction, "ctas", language)
}

// Closings returns the closing list for a language. Only the first entry is
// ever used when composing.
func (p *Profile) Closings(language string) ([]string, error) {
	return lookupLanguage(p.doc.ClosingLines, "closings", language)
}

func (p *Profile) SignaturePhrases() []string {
	return cloneOrEmpty(p.doc.LanguageSignatures)
}

func (p *Profile) BannedPhrases() []string {
	return cloneOrEmpty(p.doc.Banned)
}

func lookupLanguage(table map[string][]string, name, language string) ([]string, error) {
	if list, ok := table[language]; ok {
		return slices.Clone(list), nil
	}
	if list, ok := table[FallbackLanguage]; ok {
		return slices.Clone(list), nil
	}
	return nil, fmt.Errorf("%w: %s has no entry for %q nor %q", ErrMissingFragments, name, language, FallbackLanguage)
}

func cloneOrEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return slices.Clone(list)
}
