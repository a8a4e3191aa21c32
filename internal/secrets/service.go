// Package secrets orchestrates commands over the remote secrets service:
// fetch a fresh inventory snapshot, resolve names locally, then issue the
// single or batched write. Nothing is cached between invocations and no
// optimistic-concurrency token is used; a snapshot can be stale by the time
// a write lands.
package secrets

import (
	"context"
	"fmt"

	"github.com/opsarc/bwsctl/internal/batch"
	"github.com/opsarc/bwsctl/internal/bitwarden"
	"github.com/opsarc/bwsctl/internal/config"
	cerrors "github.com/opsarc/bwsctl/internal/errors"
	"github.com/opsarc/bwsctl/internal/match"
)

// Service wraps the API client with name resolution and batch semantics.
type Service struct {
	cfg    *config.Config
	client bitwarden.Client
}

// New creates a service bound to one organization via cfg.
func New(cfg *config.Config, client bitwarden.Client) *Service {
	return &Service{cfg: cfg, client: client}
}

// lookupSecret resolves a name against a fresh inventory using the
// first-wins index. Duplicate names are warned about, not fatal: the
// operation proceeds against the earliest-listed entry.
func (s *Service) lookupSecret(ctx context.Context, name string) (bitwarden.Secret, error) {
	listing, err := s.client.ListSecrets(ctx, s.cfg.OrgID)
	if err != nil {
		return bitwarden.Secret{}, cerrors.APIError("list secrets", err)
	}

	idx := match.IndexSecretsByName(listing)
	s.warnDuplicates("secret", idx.Duplicates, name)

	secret, ok := idx.ByName[name]
	if !ok {
		return bitwarden.Secret{}, cerrors.NotFoundError{Kind: "secret", Name: name}
	}
	return secret, nil
}

func (s *Service) warnDuplicates(kind string, duplicates []string, name string) {
	for _, dup := range duplicates {
		if dup == name {
			s.cfg.Logger.Warn("multiple %ss named '%s' exist; using the first one listed", kind, name)
		}
	}
}

// Get returns the secret with the given exact name. Zero matches is an
// error, not an empty success.
func (s *Service) Get(ctx context.Context, name string) (bitwarden.Secret, error) {
	return s.lookupSecret(ctx, name)
}

// SetOptions carries the optional fields of Set. The *Set flags record
// whether the caller supplied the option at all: an omitted note or project
// carries the stored value forward, which is different from supplying an
// empty one.
type SetOptions struct {
	Note       string
	NoteSet    bool
	Project    string
	ProjectSet bool
}

// Set creates the secret if the name is unknown, otherwise updates it in
// place. Returns the stored entry and whether it was newly created.
func (s *Service) Set(ctx context.Context, name, value string, opts SetOptions) (*bitwarden.Secret, bool, error) {
	listing, err := s.client.ListSecrets(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, false, cerrors.APIError("list secrets", err)
	}

	idx := match.IndexSecretsByName(listing)
	s.warnDuplicates("secret", idx.Duplicates, name)
	existing, exists := idx.ByName[name]

	req := bitwarden.SecretRequest{Key: name, Value: value}

	if opts.NoteSet {
		req.Note = opts.Note
	} else if exists {
		req.Note = existing.Note
	}

	switch {
	case opts.ProjectSet:
		projectID, err := s.ensureProject(ctx, opts.Project)
		if err != nil {
			return nil, false, err
		}
		req.ProjectIDs = []string{projectID}
	case exists && existing.ProjectID != "":
		req.ProjectIDs = []string{existing.ProjectID}
	}

	if !exists {
		created, err := s.client.CreateSecret(ctx, s.cfg.OrgID, req)
		if err != nil {
			return nil, false, cerrors.APIError("create secret", err)
		}
		return created, true, nil
	}

	updated, err := s.client.UpdateSecret(ctx, s.cfg.OrgID, existing.ID, req)
	if err != nil {
		return nil, false, cerrors.APIError("update secret", err)
	}
	return updated, false, nil
}

// ensureProject resolves a project name to an id, creating the project when
// no entry with that name exists yet.
func (s *Service) ensureProject(ctx context.Context, name string) (string, error) {
	projects, err := s.client.ListProjects(ctx, s.cfg.OrgID)
	if err != nil {
		return "", cerrors.APIError("list projects", err)
	}

	idx := match.IndexProjectsByName(projects)
	s.warnDuplicates("project", idx.Duplicates, name)

	if project, ok := idx.ByName[name]; ok {
		return project.ID, nil
	}

	created, err := s.client.CreateProject(ctx, s.cfg.OrgID, name)
	if err != nil {
		return "", cerrors.APIError("create project", err)
	}
	s.cfg.Logger.Info("created project '%s'", name)
	return created.ID, nil
}

// Delete removes the secret with the given name. An HTTP-level success is
// not enough: the response must contain a confirmation row for the deleted
// id with no per-item error.
func (s *Service) Delete(ctx context.Context, name string) error {
	secret, err := s.lookupSecret(ctx, name)
	if err != nil {
		return err
	}

	results, err := s.client.DeleteSecrets(ctx, s.cfg.OrgID, []string{secret.ID})
	if err != nil {
		return cerrors.APIError("delete secret", err)
	}

	for _, r := range results {
		if r.ID != secret.ID {
			continue
		}
		if r.Error != "" {
			return cerrors.UserError{
				Message: fmt.Sprintf("Failed to delete secret '%s'", name),
				Details: r.Error,
			}
		}
		return nil
	}

	return cerrors.UserError{
		Message:    fmt.Sprintf("Delete of secret '%s' was not confirmed by the service", name),
		Suggestion: "Run 'bwsctl list' to check whether the secret still exists",
	}
}

// ListEntry is a display row for the list command. ProjectName is resolved
// through the last-wins id->name map and empty for unassigned secrets.
type ListEntry struct {
	Secret      bitwarden.Secret
	ProjectName string
}

// List returns the inventory in listing order, filtered by pattern when one
// is given.
func (s *Service) List(ctx context.Context, pattern string) ([]ListEntry, error) {
	listing, err := s.client.ListSecrets(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, cerrors.APIError("list secrets", err)
	}

	if pattern != "" {
		p, err := match.Compile(pattern)
		if err != nil {
			return nil, cerrors.UserError{
				Message: fmt.Sprintf("Invalid pattern '%s'", pattern),
				Details: err.Error(),
			}
		}
		listing = match.FilterSecrets(listing, p)
	}

	projects, err := s.client.ListProjects(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, cerrors.APIError("list projects", err)
	}
	names := match.ProjectNamesByID(projects)

	entries := make([]ListEntry, 0, len(listing))
	for _, secret := range listing {
		entries = append(entries, ListEntry{
			Secret:      secret,
			ProjectName: names[secret.ProjectID],
		})
	}
	return entries, nil
}

// MoveReport is the settled result of a bulk move.
type MoveReport struct {
	ProjectName string
	Outcomes    []batch.Outcome[bitwarden.Secret]
}

// Moved counts the successfully reassigned secrets.
func (r MoveReport) Moved() int {
	return len(r.Outcomes) - batch.Failed(r.Outcomes)
}

// Move reassigns every secret whose name matches the pattern to the named
// project, creating the project if needed. Updates run through the bounded
// batch executor: chunks of batch.DefaultSize, every item attempted, one
// outcome per matched secret in listing order. The error return covers only
// pre-batch failures (bad pattern, inventory fetch, project resolution);
// per-item failures live in the report.
func (s *Service) Move(ctx context.Context, pattern, projectName string) (*MoveReport, error) {
	p, err := match.Compile(pattern)
	if err != nil {
		return nil, cerrors.UserError{
			Message: fmt.Sprintf("Invalid pattern '%s'", pattern),
			Details: err.Error(),
		}
	}

	listing, err := s.client.ListSecrets(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, cerrors.APIError("list secrets", err)
	}

	matched := match.FilterSecrets(listing, p)
	if len(matched) == 0 {
		return nil, cerrors.UserError{
			Message:    fmt.Sprintf("No secrets match pattern '%s'", pattern),
			Suggestion: "Run 'bwsctl list' to see available secret names",
		}
	}

	projectID, err := s.ensureProject(ctx, projectName)
	if err != nil {
		return nil, err
	}

	outcomes := batch.Run(ctx, matched, batch.DefaultSize,
		func(ctx context.Context, secret bitwarden.Secret) (string, error) {
			req := bitwarden.SecretRequest{
				Key:        secret.Key,
				Value:      secret.Value,
				Note:       secret.Note,
				ProjectIDs: []string{projectID},
			}
			if _, err := s.client.UpdateSecret(ctx, s.cfg.OrgID, secret.ID, req); err != nil {
				return "", err
			}
			return fmt.Sprintf("moved to '%s'", projectName), nil
		})

	return &MoveReport{ProjectName: projectName, Outcomes: outcomes}, nil
}

// Projects returns all projects in listing order.
func (s *Service) Projects(ctx context.Context) ([]bitwarden.Project, error) {
	projects, err := s.client.ListProjects(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, cerrors.APIError("list projects", err)
	}
	return projects, nil
}

// CreateProject creates a project with the given name. Creating a second
// project with an existing name is allowed by the service; warn instead of
// failing so behavior matches what the web vault permits.
func (s *Service) CreateProject(ctx context.Context, name string) (*bitwarden.Project, error) {
	projects, err := s.client.ListProjects(ctx, s.cfg.OrgID)
	if err != nil {
		return nil, cerrors.APIError("list projects", err)
	}
	idx := match.IndexProjectsByName(projects)
	if _, ok := idx.ByName[name]; ok {
		s.cfg.Logger.Warn("a project named '%s' already exists; creating another", name)
	}

	created, err := s.client.CreateProject(ctx, s.cfg.OrgID, name)
	if err != nil {
		return nil, cerrors.APIError("create project", err)
	}
	return created, nil
}

// DeleteProject removes the first-listed project with the given name,
// requiring the same per-id confirmation as secret deletes.
func (s *Service) DeleteProject(ctx context.Context, name string) error {
	projects, err := s.client.ListProjects(ctx, s.cfg.OrgID)
	if err != nil {
		return cerrors.APIError("list projects", err)
	}

	idx := match.IndexProjectsByName(projects)
	s.warnDuplicates("project", idx.Duplicates, name)

	project, ok := idx.ByName[name]
	if !ok {
		return cerrors.NotFoundError{Kind: "project", Name: name}
	}

	results, err := s.client.DeleteProjects(ctx, s.cfg.OrgID, []string{project.ID})
	if err != nil {
		return cerrors.APIError("delete project", err)
	}

	for _, r := range results {
		if r.ID != project.ID {
			continue
		}
		if r.Error != "" {
			return cerrors.UserError{
				Message: fmt.Sprintf("Failed to delete project '%s'", name),
				Details: r.Error,
			}
		}
		return nil
	}

	return cerrors.UserError{
		Message: fmt.Sprintf("Delete of project '%s' was not confirmed by the service", name),
	}
}
