package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/auth"
)

const drawing = `<svg viewBox="0 0 100 100"><rect x="10" y="10" width="20" height="20"/></svg>`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	replayOutput, replayCheck = "", false
	fitWidth, fitHeight, fitWrite = 0, 0, false
	tokenTTL = auth.DefaultTokenTTL

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReplayCommand(t *testing.T) {
	svg := writeFile(t, "in.svg", drawing)
	yml := writeFile(t, "nudge.yaml", "steps:\n  - drag: {from: [20, 20], to: [25, 20]}\n")

	out, err := execute(t, "replay", svg, yml)
	require.NoError(t, err)
	assert.Contains(t, out, `x="15"`)

	dst := filepath.Join(t.TempDir(), "out.svg")
	_, err = execute(t, "replay", svg, yml, "-o", dst, "--check")
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `x="15"`)
}

func TestReplayCommand_CheckFailsWhenClean(t *testing.T) {
	svg := writeFile(t, "in.svg", drawing)
	yml := writeFile(t, "click.yaml", "steps:\n  - click: {x: 20, y: 20}\n")

	_, err := execute(t, "replay", svg, yml, "--check")
	assert.ErrorContains(t, err, "no changes")
}

func TestFitCommand(t *testing.T) {
	svg := writeFile(t, "in.svg", drawing)
	out, err := execute(t, "fit", svg, "-w")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `viewBox="`+strings.TrimSpace(out)+`"`)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := execute(t, "token", "user_cli")
	require.NoError(t, err)

	sub, err := auth.NewService("cli-secret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user_cli", sub)
}

func TestArgsValidation(t *testing.T) {
	_, err := execute(t, "replay", "only-one.svg")
	assert.Error(t, err)
}
