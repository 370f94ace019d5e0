package application

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/storage"
	"github.com/rios0rios0/releaseforge/schema"
)

// CompareService computes structural differences between two revisions of
// the registry and verifies that a change set has one of the allowed shapes.
type CompareService struct {
	store       *storage.Store
	git         domain.RepoClient
	releasesDir string
}

// NewCompareService creates the service for a registry checkout.
func NewCompareService(store *storage.Store, git domain.RepoClient, releasesDir string) *CompareService {
	return &CompareService{store: store, git: git, releasesDir: releasesDir}
}

// Compare returns the per-component added/deleted differences between the
// registry contents at two revisions. Components that agree on both sides
// are omitted.
func (s *CompareService) Compare(ctx context.Context, from, to string) (domain.ComparisonMap, error) {
	older, err := s.loadAllAt(ctx, from)
	if err != nil {
		return nil, err
	}
	newer, err := s.loadAllAt(ctx, to)
	if err != nil {
		return nil, err
	}
	return buildComparison(older, newer), nil
}

// VerifyRelease checks that the changes between two revisions represent
// exactly one new release and returns its document form.
func (s *CompareService) VerifyRelease(ctx context.Context, from, to string) (domain.ReleaseDoc, error) {
	comparison, err := s.Compare(ctx, from, to)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}

	name, version, err := schema.ValidateAddedRelease(comparison)
	if err != nil {
		return domain.ReleaseDoc{}, s.withDiff(err, comparison)
	}

	restore, err := s.git.CheckoutAt(ctx, s.releasesDir, to)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	defer restore() //nolint:errcheck // read-only lookup, original rev restored best-effort

	component, err := s.store.LoadComponent(name)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	release, err := component.GetRelease(version.Version, false)
	if err != nil {
		return domain.ReleaseDoc{}, err
	}
	return release.Doc(component), nil
}

// VerifyRegistration checks that the changes between two revisions represent
// the registration of exactly one new component and returns its document.
func (s *CompareService) VerifyRegistration(ctx context.Context, from, to string) (domain.ComponentDoc, error) {
	comparison, err := s.Compare(ctx, from, to)
	if err != nil {
		return domain.ComponentDoc{}, err
	}

	name, err := schema.ValidateAddedComponent(comparison)
	if err != nil {
		return domain.ComponentDoc{}, s.withDiff(err, comparison)
	}
	return comparison[name].Added, nil
}

// loadAllAt loads every component document as of a revision, restoring the
// working tree before returning.
func (s *CompareService) loadAllAt(ctx context.Context, rev string) (components []*domain.Component, err error) {
	restore, err := s.git.CheckoutAt(ctx, s.releasesDir, rev)
	if err != nil {
		return nil, err
	}
	defer func() {
		if restoreErr := restore(); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	components, err = s.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading registry at %q: %w", rev, err)
	}
	return components, nil
}

// withDiff attaches the rendered comparison to a validation failure so the
// caller sees exactly which changes were rejected.
func (s *CompareService) withDiff(err error, comparison domain.ComparisonMap) error {
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		return err
	}
	rendered, marshalErr := yaml.Marshal(comparisonDocs(comparison))
	if marshalErr != nil {
		return err
	}
	validation.Diff = string(rendered)
	return validation
}

// comparisonDoc is the document form of one component's comparison entry.
type comparisonDoc struct {
	Added   domain.ComponentDoc `yaml:"added,omitempty"`
	Deleted domain.ComponentDoc `yaml:"deleted,omitempty"`
}

func comparisonDocs(comparison domain.ComparisonMap) map[string]comparisonDoc {
	docs := make(map[string]comparisonDoc, len(comparison))
	for name, entry := range comparison {
		docs[name] = comparisonDoc{Added: entry.Added, Deleted: entry.Deleted}
	}
	return docs
}

// buildComparison pairs components by original name across two snapshots and
// keeps the per-component differences in both directions.
func buildComparison(older, newer []*domain.Component) domain.ComparisonMap {
	oldDocs := snapshotDocs(older)
	newDocs := snapshotDocs(newer)

	comparison := domain.ComparisonMap{}
	for name, newDoc := range newDocs {
		oldDoc := oldDocs[name]
		entry := domain.Comparison{
			Added:   domain.DiffDocs(newDoc, oldDoc),
			Deleted: domain.DiffDocs(oldDoc, newDoc),
		}
		if !entry.Added.IsEmpty() || !entry.Deleted.IsEmpty() {
			comparison[name] = entry
		}
	}
	for name, oldDoc := range oldDocs {
		if _, ok := newDocs[name]; ok {
			continue
		}
		comparison[name] = domain.Comparison{Deleted: oldDoc}
	}
	return comparison
}

func snapshotDocs(components []*domain.Component) map[string]domain.ComponentDoc {
	docs := make(map[string]domain.ComponentDoc, len(components))
	for _, component := range components {
		docs[component.Name] = component.Doc()
	}
	return docs
}
