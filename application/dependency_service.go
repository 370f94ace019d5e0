package application

import (
	"context"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/storage"
)

// DependencyService implements the dependency declaration and pinned
// requirements pipeline. Metadata and requirements documents live in the
// dependent component's own repository, not in the registry.
type DependencyService struct {
	store *storage.Store
	git   domain.RepoClient
}

// NewDependencyService creates the service backed by a registry store.
func NewDependencyService(store *storage.Store, git domain.RepoClient) *DependencyService {
	return &DependencyService{store: store, git: git}
}

// SetDependency upserts one dependency declaration in the metadata document
// at dir and commits the change in dir's repository.
func (s *DependencyService) SetDependency(
	ctx context.Context,
	dir, name string,
	constraints []string,
) error {
	if _, err := s.store.LoadComponent(name); err != nil {
		return err
	}
	if _, err := domain.ParseConstraints(constraints); err != nil {
		return err
	}

	current, err := storage.LoadMetadata(dir)
	if err != nil {
		return err
	}
	updated := storage.SetDependency(current, name, constraints)
	if storage.MetadataEqual(current, updated) && metadataFileExists(dir) {
		logger.Debugf("Dependency %q already declared with the same constraints", name)
		return nil
	}

	if err := storage.SaveMetadata(dir, updated); err != nil {
		return err
	}
	return s.git.CommitPaths(ctx, dir, []string{storage.MetadataFilename},
		"Set component dependency "+name)
}

// UpdateRequirements resolves every declared dependency against the registry
// and rewrites the pinned requirements document at dir, committing when the
// pins changed. Resolution failures are aggregated; nothing is written when
// any dependency fails.
func (s *DependencyService) UpdateRequirements(ctx context.Context, dir string) (domain.RequirementsDoc, error) {
	metadata, err := storage.LoadMetadata(dir)
	if err != nil {
		return domain.RequirementsDoc{}, err
	}

	resolved, err := s.resolveAll(ctx, metadata)
	if err != nil {
		return domain.RequirementsDoc{}, err
	}

	existing, err := storage.LoadRequirements(dir)
	if err != nil {
		return domain.RequirementsDoc{}, err
	}
	if storage.RequirementsEqual(existing, resolved) {
		logger.Debug("Pinned requirements are already up to date")
		return resolved, nil
	}

	if err := storage.SaveRequirements(dir, resolved); err != nil {
		return domain.RequirementsDoc{}, err
	}
	if err := s.git.CommitPaths(ctx, dir, []string{storage.RequirementsFilename},
		"Update component dependency requirements"); err != nil {
		return domain.RequirementsDoc{}, err
	}
	return resolved, nil
}

// DownloadRequirements materialises every pinned dependency under
// downloadDir, each checkout named after its component and synced to the
// pinned commit.
func (s *DependencyService) DownloadRequirements(ctx context.Context, dir, downloadDir string) error {
	requirements, err := storage.LoadRequirements(dir)
	if err != nil {
		return err
	}

	for _, requirement := range requirements.Dependencies {
		target := filepath.Join(downloadDir, requirement.Name)
		logger.Infof("Syncing %s to %s", requirement.Name, requirement.Sha)
		if err := s.git.SyncToSha(ctx, requirement.RepoURL, target, requirement.Sha); err != nil {
			return err
		}
	}
	return nil
}

// resolveAll pins every declared dependency, collecting failures so a run
// reports all of them at once.
func (s *DependencyService) resolveAll(
	ctx context.Context,
	metadata domain.MetadataDoc,
) (domain.RequirementsDoc, error) {
	var doc domain.RequirementsDoc
	var failures []domain.DependencyFailure

	for _, declaration := range metadata.Dependencies {
		requirement, err := s.resolve(ctx, declaration)
		if err != nil {
			failures = append(failures, domain.DependencyFailure{
				Name:        declaration.Name,
				Constraints: declaration.Constraints,
				Err:         err,
			})
			continue
		}
		doc.Dependencies = append(doc.Dependencies, requirement)
	}

	if len(failures) > 0 {
		return domain.RequirementsDoc{}, &domain.UnresolvedDependencyError{Failures: failures}
	}
	return doc, nil
}

// resolve pins one declaration: branch pins resolve the remote tip, version
// constraints resolve against the component's release history.
func (s *DependencyService) resolve(
	ctx context.Context,
	declaration domain.DependencyDecl,
) (domain.Requirement, error) {
	component, err := s.store.LoadComponent(declaration.Name)
	if err != nil {
		return domain.Requirement{}, err
	}

	set, err := domain.ParseConstraints(declaration.Constraints)
	if err != nil {
		return domain.Requirement{}, err
	}

	if set.IsBranch() {
		branch := set.Branch.Name
		sha, err := s.git.BranchTip(ctx, component.RepoURL, branch)
		if err != nil {
			return domain.Requirement{}, err
		}
		return domain.BranchRequirement(component, branch, sha), nil
	}

	release, err := domain.ResolveVersion(component, set)
	if err != nil {
		return domain.Requirement{}, err
	}
	return domain.TagRequirement(component, release), nil
}

func metadataFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, storage.MetadataFilename))
	return err == nil
}
