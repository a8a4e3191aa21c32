package execenv

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsarc/bwsctl/internal/logging"
	"github.com/opsarc/bwsctl/internal/secure"
)

func TestMaskValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "(empty)"},
		{"single char", "a", "*"},
		{"three chars", "abc", "***"},
		{"short value", "abcdef", "a****f"},
		{"long value", "super-secret-value", "sup********ue"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, maskValue(tt.input))
		})
	}
}

func TestBuildEnvironment_InjectedValuesWin(t *testing.T) {
	t.Setenv("BWSRUN_TEST_VAR", "ambient")

	e := New(logging.New(false, true))
	injected := map[string]*secure.Buffer{
		"BWSRUN_TEST_VAR": secure.NewBufferFromString("injected"),
	}

	env, opened, err := e.buildEnvironment(injected, false)
	require.NoError(t, err)

	assert.Equal(t, "injected", opened["BWSRUN_TEST_VAR"])
	assert.Contains(t, env, "BWSRUN_TEST_VAR=injected")
	assert.NotContains(t, env, "BWSRUN_TEST_VAR=ambient")
}

func TestBuildEnvironment_AllowOverrideKeepsAmbient(t *testing.T) {
	t.Setenv("BWSRUN_TEST_VAR", "ambient")

	e := New(logging.New(false, true))
	injected := map[string]*secure.Buffer{
		"BWSRUN_TEST_VAR": secure.NewBufferFromString("injected"),
		"BWSRUN_FRESH":    secure.NewBufferFromString("fresh"),
	}

	env, _, err := e.buildEnvironment(injected, true)
	require.NoError(t, err)

	assert.Contains(t, env, "BWSRUN_TEST_VAR=ambient")
	assert.Contains(t, env, "BWSRUN_FRESH=fresh")
}

func TestBuildEnvironment_ValuesOutliveLockedBuffers(t *testing.T) {
	e := New(logging.New(false, true))
	injected := map[string]*secure.Buffer{
		"BWSRUN_COPIED": secure.NewBufferFromString("must-survive-destroy"),
	}

	env, opened, err := e.buildEnvironment(injected, false)
	require.NoError(t, err)

	// The source buffers are gone; the returned strings must be copies,
	// not views of unmapped locked memory
	for _, buf := range injected {
		buf.Destroy()
	}

	assert.Equal(t, "must-survive-destroy", opened["BWSRUN_COPIED"])
	line := fmt.Sprintf("%s=%s", "BWSRUN_COPIED", opened["BWSRUN_COPIED"])
	assert.Equal(t, "BWSRUN_COPIED=must-survive-destroy", line)
	assert.Contains(t, env, "BWSRUN_COPIED=must-survive-destroy")
	assert.Contains(t, strings.Join(env, "\n"), "must-survive-destroy")
}

func TestRedactedCommandLine(t *testing.T) {
	t.Parallel()

	line := redactedCommandLine(
		[]string{"curl", "-H", "Authorization: hunter2-token"},
		map[string]string{"API_TOKEN": "hunter2-token"},
	)

	assert.Equal(t, "curl -H Authorization: [REDACTED]", line)
	assert.NotContains(t, line, "hunter2-token")
}

func TestBuildEnvironment_SortedOutput(t *testing.T) {
	e := New(logging.New(false, true))
	injected := map[string]*secure.Buffer{
		"Z_LAST":  secure.NewBufferFromString("z"),
		"A_FIRST": secure.NewBufferFromString("a"),
	}

	env, _, err := e.buildEnvironment(injected, false)
	require.NoError(t, err)

	var zi, ai int
	for i, entry := range env {
		switch entry {
		case "Z_LAST=z":
			zi = i
		case "A_FIRST=a":
			ai = i
		}
	}
	assert.Less(t, ai, zi, "environment slice must be sorted")
}
