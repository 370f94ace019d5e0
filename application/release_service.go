package application

import (
	"context"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/storage"
)

// ReleaseService implements the release get/add operations.
type ReleaseService struct {
	store       *storage.Store
	git         domain.RepoClient
	releasesDir string
}

// NewReleaseService creates the service for a registry checkout.
func NewReleaseService(store *storage.Store, git domain.RepoClient, releasesDir string) *ReleaseService {
	return &ReleaseService{store: store, git: git, releasesDir: releasesDir}
}

// Get returns the release document for a version of a component. When
// predecessor is true the release immediately before that version is
// returned instead.
func (s *ReleaseService) Get(
	_ context.Context,
	componentName, version string,
	predecessor bool,
) (domain.ReleaseDoc, error) {
	component, err := s.store.LoadComponent(componentName)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	release, err := component.GetRelease(version, predecessor)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	return release.Doc(component), nil
}

// Add records a new release for a component and commits the change.
func (s *ReleaseService) Add(
	ctx context.Context,
	componentName, version, sha, series string,
) (domain.ReleaseDoc, error) {
	component, err := s.store.LoadComponent(componentName)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}

	release, err := component.CreateRelease(version, sha, series)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}

	written, err := s.store.SaveComponent(component)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	if written {
		message := "Add component " + component.Name + " release " + release.Version
		if err := s.git.CommitPaths(ctx, s.releasesDir, []string{s.store.ComponentsDir}, message); err != nil {
			return domain.ReleaseDoc{}, err
		}
	}
	return release.Doc(component), nil
}
