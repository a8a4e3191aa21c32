package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsarc/bwsctl/internal/bitwarden"
	"github.com/opsarc/bwsctl/internal/match"
)

func TestIndexSecretsByName_FirstWins(t *testing.T) {
	t.Parallel()

	secrets := []bitwarden.Secret{
		{ID: "1", Key: "A"},
		{ID: "2", Key: "A"},
		{ID: "3", Key: "B"},
	}

	idx := match.IndexSecretsByName(secrets)

	require.Len(t, idx.ByName, 2)
	assert.Equal(t, "1", idx.ByName["A"].ID, "first occurrence must win")
	assert.Equal(t, "3", idx.ByName["B"].ID)
	assert.Equal(t, []string{"A"}, idx.Duplicates)
}

func TestIndexSecretsByName_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	secrets := []bitwarden.Secret{
		{ID: "1", Key: "A"},
		{ID: "2", Key: "A"},
	}

	match.IndexSecretsByName(secrets)

	assert.Equal(t, "1", secrets[0].ID)
	assert.Equal(t, "2", secrets[1].ID)
}

func TestIndexProjectsByName_FirstWins(t *testing.T) {
	t.Parallel()

	projects := []bitwarden.Project{
		{ID: "p1", Name: "prod"},
		{ID: "p2", Name: "prod"},
		{ID: "p3", Name: "staging"},
	}

	idx := match.IndexProjectsByName(projects)

	require.Len(t, idx.ByName, 2)
	assert.Equal(t, "p1", idx.ByName["prod"].ID)
	assert.Equal(t, []string{"prod"}, idx.Duplicates)
}

func TestProjectNamesByID_LastWins(t *testing.T) {
	t.Parallel()

	projects := []bitwarden.Project{
		{ID: "p1", Name: "x"},
		{ID: "p1", Name: "y"},
	}

	names := match.ProjectNamesByID(projects)

	assert.Equal(t, "y", names["p1"], "later entry must overwrite earlier one")
}

func TestIndexers_EmptyInput(t *testing.T) {
	t.Parallel()

	secretIdx := match.IndexSecretsByName(nil)
	assert.NotNil(t, secretIdx.ByName)
	assert.Empty(t, secretIdx.ByName)
	assert.Empty(t, secretIdx.Duplicates)

	projectIdx := match.IndexProjectsByName(nil)
	assert.NotNil(t, projectIdx.ByName)
	assert.Empty(t, projectIdx.ByName)

	names := match.ProjectNamesByID(nil)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestFilterSecrets(t *testing.T) {
	t.Parallel()

	secrets := []bitwarden.Secret{
		{ID: "1", Key: "LMB_A"},
		{ID: "2", Key: "LMB_B"},
		{ID: "3", Key: "OTHER"},
	}

	p, err := match.Compile("LMB_*")
	require.NoError(t, err)

	matched := match.FilterSecrets(secrets, p)

	require.Len(t, matched, 2)
	assert.Equal(t, "LMB_A", matched[0].Key)
	assert.Equal(t, "LMB_B", matched[1].Key)
}
