package match

import "github.com/opsarc/bwsctl/internal/bitwarden"

// The service does not enforce unique secret or project names, so every
// lookup structure here documents a deterministic tie-break. Name indexes
// keep the first entry in response order; commands that resolve a name for
// read/update/delete all go through the same index so they agree on which
// duplicate they act on. The id->name map keeps the last entry, which only
// matters if the service ever returned a duplicated id.

// SecretIndex maps secret names to entries, first occurrence wins.
// Duplicates lists each name that appeared more than once, in the order the
// duplicate was first observed, so callers can warn.
type SecretIndex struct {
	ByName     map[string]bitwarden.Secret
	Duplicates []string
}

// IndexSecretsByName builds a first-wins name index over the listing. The
// input slice is not modified. An empty listing yields an empty index.
func IndexSecretsByName(secrets []bitwarden.Secret) SecretIndex {
	idx := SecretIndex{ByName: make(map[string]bitwarden.Secret, len(secrets))}
	seen := make(map[string]bool, len(secrets))
	for _, s := range secrets {
		if _, ok := idx.ByName[s.Key]; ok {
			if !seen[s.Key] {
				idx.Duplicates = append(idx.Duplicates, s.Key)
				seen[s.Key] = true
			}
			continue
		}
		idx.ByName[s.Key] = s
	}
	return idx
}

// ProjectIndex maps project names to entries, first occurrence wins.
type ProjectIndex struct {
	ByName     map[string]bitwarden.Project
	Duplicates []string
}

// IndexProjectsByName builds a first-wins name index over the listing.
func IndexProjectsByName(projects []bitwarden.Project) ProjectIndex {
	idx := ProjectIndex{ByName: make(map[string]bitwarden.Project, len(projects))}
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if _, ok := idx.ByName[p.Name]; ok {
			if !seen[p.Name] {
				idx.Duplicates = append(idx.Duplicates, p.Name)
				seen[p.Name] = true
			}
			continue
		}
		idx.ByName[p.Name] = p
	}
	return idx
}

// ProjectNamesByID maps project ids to names for display purposes. Later
// entries overwrite earlier ones; ids are expected unique so the overwrite
// is a defensive default, not a business rule.
func ProjectNamesByID(projects []bitwarden.Project) map[string]string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

// FilterSecrets returns the secrets whose names match the pattern,
// preserving listing order.
func FilterSecrets(secrets []bitwarden.Secret, p *Pattern) []bitwarden.Secret {
	matched := make([]bitwarden.Secret, 0, len(secrets))
	for _, s := range secrets {
		if p.Match(s.Key) {
			matched = append(matched, s)
		}
	}
	return matched
}
