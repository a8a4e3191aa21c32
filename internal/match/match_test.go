package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsarc/bwsctl/internal/match"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pattern   string
		candidate string
		want      bool
	}{
		{"exact match", "LMB_DB_URL", "LMB_DB_URL", true},
		{"exact match ignores case", "lmb_db_url", "LMB_DB_URL", true},
		{"exact mismatch", "LMB_DB_URL", "LMB_DB_URI", false},
		{"no wildcard is not substring match", "DB", "LMB_DB_URL", false},
		{"prefix wildcard", "LMB_*", "LMB_DB_URL", true},
		{"prefix wildcard rejects other prefix", "LMB_*", "STRAT_DB_URL", false},
		{"suffix wildcard", "*_URL", "LMB_DB_URL", true},
		{"suffix wildcard rejects other suffix", "*_URL", "LMB_API_KEY", false},
		{"infix wildcard", "*metrics*", "LMB_METRICS_DB_URL", true},
		{"infix wildcard no occurrence", "*metrics*", "LMB_DB_URL", false},
		{"lone star matches anything", "*", "anything at all", true},
		{"lone star matches empty", "*", "", true},
		{"empty pattern matches only empty", "", "", true},
		{"empty pattern rejects non-empty", "", "x", false},
		{"star matches zero characters", "LMB_*URL", "LMB_URL", true},
		{"multiple stars", "*_*_*", "LMB_DB_URL", true},
		{"dot is literal", "MY.KEY", "MY.KEY", true},
		{"dot does not match any char", "MY.KEY", "MYXKEY", false},
		{"plus is literal", "A+B", "A+B", true},
		{"plus is not a quantifier", "A+B", "AAB", false},
		{"parens and brackets literal", "(a)[b]", "(a)[b]", true},
		{"anchored to full string", "LMB", "LMB_DB_URL", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, match.Match(tt.pattern, tt.candidate))
		})
	}
}

func TestCompileReusable(t *testing.T) {
	t.Parallel()

	p, err := match.Compile("LMB_*")
	require.NoError(t, err)

	assert.True(t, p.Match("LMB_A"))
	assert.True(t, p.Match("lmb_a"))
	assert.False(t, p.Match("OTHER"))
	assert.Equal(t, "LMB_*", p.String())
}
