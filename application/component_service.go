// Package application orchestrates the registry operations behind the CLI
// commands: component and release management, snapshot comparison, and the
// dependency requirements pipeline.
package application

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/storage"
)

// ComponentService implements the component get/add/update operations.
type ComponentService struct {
	store       *storage.Store
	git         domain.RepoClient
	releasesDir string
}

// NewComponentService creates the service for a registry checkout.
func NewComponentService(store *storage.Store, git domain.RepoClient, releasesDir string) *ComponentService {
	return &ComponentService{store: store, git: git, releasesDir: releasesDir}
}

// Get loads a component by name.
func (s *ComponentService) Get(_ context.Context, name string) (*domain.Component, error) {
	return s.store.LoadComponent(name)
}

// Add registers a new component. The repository URL is probed through its
// SSH form before anything is written, and the registration is committed.
func (s *ComponentService) Add(
	ctx context.Context,
	name, repoURL string,
	isProduct bool,
) (*domain.Component, error) {
	_, err := s.store.LoadComponent(name)
	if err == nil {
		return nil, &domain.ComponentExistsError{Name: name}
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	component, err := domain.NewComponent(name, repoURL, isProduct)
	if err != nil {
		return nil, err
	}
	component.Directory = s.store.ComponentsDir

	sshURL, err := domain.GitHTTPToSSH(repoURL)
	if err != nil {
		return nil, err
	}
	if err := s.git.ProbeRemote(ctx, sshURL); err != nil {
		return nil, fmt.Errorf("the repo_url provided is inaccessible: %w", err)
	}

	if err := s.persist(ctx, component, "Add component "+component.Name); err != nil {
		return nil, err
	}
	return component, nil
}

// Update changes a component's identity fields. Nothing is written or
// committed when no field actually changed.
func (s *ComponentService) Update(
	ctx context.Context,
	name, newName, repoURL string,
	isProduct *bool,
) (*domain.Component, error) {
	component, err := s.store.LoadComponent(name)
	if err != nil {
		return nil, err
	}

	if newName != "" {
		component.Name = newName
	}
	if repoURL != "" {
		if !domain.IsValidRepoURL(repoURL) {
			return nil, &domain.FormatError{
				Kind:  "repo_url",
				Value: repoURL,
				Cause: "expected https://github.com/...",
			}
		}
		component.RepoURL = repoURL
	}
	if isProduct != nil {
		component.IsProduct = *isProduct
	}

	if err := s.persist(ctx, component, "Update component "+component.Name); err != nil {
		return nil, err
	}
	return component, nil
}

// persist saves the component and commits the components directory when a
// write happened.
func (s *ComponentService) persist(ctx context.Context, component *domain.Component, message string) error {
	written, err := s.store.SaveComponent(component)
	if err != nil {
		return err
	}
	if !written {
		logger.Debugf("No change for component %q, nothing to commit", component.Name)
		return nil
	}
	return s.git.CommitPaths(ctx, s.releasesDir, []string{s.store.ComponentsDir}, message)
}
