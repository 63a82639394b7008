package models

import "strings"

// Role is the contact's professional category. Unknown values are kept as-is
// and degrade to prospect semantics wherever a role-specific entry is missing.
type Role string

const (
	RoleProspect     Role = "prospect"
	RoleMarmorista   Role = "marmorista"
	RoleDistribuidor Role = "distribuidor"
	RoleArquiteto    Role = "arquiteto"
	RoleFabricator   Role = "fabricator"
)

const DefaultMarket = "BR"

// Contact describes who the opening message is addressed to.
type Contact struct {
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Market   string `json:"market,omitempty"`
	Language string `json:"language,omitempty"`
}

// Normalize returns a copy with market upper-cased, role lower-cased and
// defaults applied. Language is only trimmed, and left empty when not
// overridden so the caller can resolve it from the market.
func (c Contact) Normalize() Contact {
	out := Contact{
		Name:     strings.TrimSpace(c.Name),
		Role:     Role(strings.ToLower(strings.TrimSpace(string(c.Role)))),
		Market:   strings.ToUpper(strings.TrimSpace(c.Market)),
		Language: strings.TrimSpace(c.Language),
	}
	if out.Market == "" {
		out.Market = DefaultMarket
	}
	if out.Role == "" {
		out.Role = RoleProspect
	}
	return out
}

// IsProspect reports whether the role is exactly prospect.
func (r Role) IsProspect() bool {
	return r == RoleProspect
}
