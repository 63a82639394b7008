package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOpenerMatchesLibrary(t *testing.T) {
	out, err := execute(t, "--name", "Tiago", "--role", "marmorista", "--market", "BR", "--seed", "111")
	require.NoError(t, err)

	seed := int64(111)
	want, err := persona.GenerateOpeningMessage(models.Contact{Name: "Tiago", Role: "marmorista", Market: "BR"}, &seed)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
}

func TestOpenerJSON(t *testing.T) {
	out, err := execute(t, "--role", "distributor", "--market", "us", "--seed", "1", "--json", "--no-signature")
	require.NoError(t, err)

	var msg models.GeneratedMessage
	require.NoError(t, json.Unmarshal([]byte(out), &msg))
	assert.Equal(t, "US", msg.Meta.Market)
	assert.Equal(t, "en", msg.Meta.Language)
	assert.Empty(t, msg.Meta.UsedSignature)
	require.NotNil(t, msg.Meta.Seed)
	assert.Equal(t, int64(1), *msg.Meta.Seed)
}

func TestOpenerWithoutSeedOmitsIt(t *testing.T) {
	out, err := execute(t, "--json")
	require.NoError(t, err)

	var msg models.GeneratedMessage
	require.NoError(t, json.Unmarshal([]byte(out), &msg))
	assert.Nil(t, msg.Meta.Seed)
}

func TestOpenerCustomProfileAndSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	doc := strings.Join([]string{
		"markets:",
		"  BR:",
		"    language: pt",
		"    greeting_variants:",
		"      - \"Oi!\"",
		"ctas:",
		"  pt:",
		"    - \"Vamos conversar?\"",
		"closings:",
		"  pt:",
		"    - \"Abraço.\"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "--profile", path, "--separator", " / ", "--role", "arquiteto", "--seed", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Oi! "), out)
	assert.True(t, strings.HasSuffix(out, " / Vamos conversar? / Abraço.\n"), out)
}

func TestOpenerBadProfile(t *testing.T) {
	_, err := execute(t, "--profile", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, persona.ErrInvalidProfile)
}
