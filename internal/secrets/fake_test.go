package secrets_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/opsarc/bwsctl/internal/bitwarden"
)

// fakeClient is an in-memory bitwarden.Client with scriptable failures.
// Listing order is insertion order, matching the service's ordered
// responses.
type fakeClient struct {
	mu       sync.Mutex
	secrets  []bitwarden.Secret
	projects []bitwarden.Project
	nextID   int

	// failUpdateIDs makes UpdateSecret fail for the given secret ids
	failUpdateIDs map[string]bool
	// deleteRowErrors injects per-id error rows into bulk delete responses
	deleteRowErrors map[string]string
	// dropDeleteRows omits confirmation rows for the given ids
	dropDeleteRows map[string]bool

	updateCalls []string
	createdKeys []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		failUpdateIDs:   make(map[string]bool),
		deleteRowErrors: make(map[string]string),
		dropDeleteRows:  make(map[string]bool),
	}
}

func (f *fakeClient) addSecret(s bitwarden.Secret) bitwarden.Secret {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		f.nextID++
		s.ID = fmt.Sprintf("sec-%d", f.nextID)
	}
	f.secrets = append(f.secrets, s)
	return s
}

func (f *fakeClient) addProject(p bitwarden.Project) bitwarden.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.nextID++
		p.ID = fmt.Sprintf("proj-%d", f.nextID)
	}
	f.projects = append(f.projects, p)
	return p
}

func (f *fakeClient) ListSecrets(_ context.Context, _ string) ([]bitwarden.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bitwarden.Secret, len(f.secrets))
	copy(out, f.secrets)
	return out, nil
}

func (f *fakeClient) ListProjects(_ context.Context, _ string) ([]bitwarden.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bitwarden.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeClient) CreateSecret(_ context.Context, _ string, req bitwarden.SecretRequest) (*bitwarden.Secret, error) {
	f.mu.Lock()
	f.nextID++
	s := bitwarden.Secret{
		ID:    fmt.Sprintf("sec-%d", f.nextID),
		Key:   req.Key,
		Value: req.Value,
		Note:  req.Note,
	}
	if len(req.ProjectIDs) > 0 {
		s.ProjectID = req.ProjectIDs[0]
	}
	f.secrets = append(f.secrets, s)
	f.createdKeys = append(f.createdKeys, req.Key)
	f.mu.Unlock()
	return &s, nil
}

func (f *fakeClient) UpdateSecret(_ context.Context, _, secretID string, req bitwarden.SecretRequest) (*bitwarden.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls = append(f.updateCalls, secretID)
	if f.failUpdateIDs[secretID] {
		return nil, fmt.Errorf("update of %s rejected: service unavailable", secretID)
	}

	for i, s := range f.secrets {
		if s.ID != secretID {
			continue
		}
		s.Key = req.Key
		s.Value = req.Value
		s.Note = req.Note
		s.ProjectID = ""
		if len(req.ProjectIDs) > 0 {
			s.ProjectID = req.ProjectIDs[0]
		}
		f.secrets[i] = s
		return &s, nil
	}
	return nil, fmt.Errorf("secret %s not found", secretID)
}

func (f *fakeClient) DeleteSecrets(_ context.Context, _ string, ids []string) ([]bitwarden.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var results []bitwarden.DeleteResult
	for _, id := range ids {
		if f.dropDeleteRows[id] {
			continue
		}
		if msg, ok := f.deleteRowErrors[id]; ok {
			results = append(results, bitwarden.DeleteResult{ID: id, Error: msg})
			continue
		}
		kept := f.secrets[:0]
		for _, s := range f.secrets {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		f.secrets = kept
		results = append(results, bitwarden.DeleteResult{ID: id})
	}
	return results, nil
}

func (f *fakeClient) CreateProject(_ context.Context, _, name string) (*bitwarden.Project, error) {
	f.mu.Lock()
	f.nextID++
	p := bitwarden.Project{ID: fmt.Sprintf("proj-%d", f.nextID), Name: name}
	f.projects = append(f.projects, p)
	f.mu.Unlock()
	return &p, nil
}

func (f *fakeClient) DeleteProjects(_ context.Context, _ string, ids []string) ([]bitwarden.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var results []bitwarden.DeleteResult
	for _, id := range ids {
		if f.dropDeleteRows[id] {
			continue
		}
		if msg, ok := f.deleteRowErrors[id]; ok {
			results = append(results, bitwarden.DeleteResult{ID: id, Error: msg})
			continue
		}
		kept := f.projects[:0]
		for _, p := range f.projects {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		f.projects = kept
		results = append(results, bitwarden.DeleteResult{ID: id})
	}
	return results, nil
}
