package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Contact
		want Contact
	}{
		{
			name: "defaults",
			in:   Contact{},
			want: Contact{Role: RoleProspect, Market: DefaultMarket},
		},
		{
			name: "case folding",
			in:   Contact{Name: " Tiago ", Role: "MarMorista", Market: "br", Language: "PT"},
			want: Contact{Name: "Tiago", Role: RoleMarmorista, Market: "BR", Language: "PT"},
		},
		{
			name: "unknown role kept",
			in:   Contact{Role: "distributor", Market: "us"},
			want: Contact{Role: "distributor", Market: "US"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestRoleIsProspect(t *testing.T) {
	assert.True(t, RoleProspect.IsProspect())
	assert.False(t, RoleArquiteto.IsProspect())
	assert.False(t, Role("Prospect").IsProspect())
}
