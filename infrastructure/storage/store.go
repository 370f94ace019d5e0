// Package storage maps registry entities to and from the on-disk YAML
// documents inside the releases repository.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/schema"
)

const componentFileMode = 0o644

// Store reads and writes component documents below a components directory.
type Store struct {
	ComponentsDir string
}

// NewStore creates a store rooted at the given components directory.
func NewStore(componentsDir string) *Store {
	return &Store{ComponentsDir: componentsDir}
}

// ComponentPath returns the document path for a component name.
func (s *Store) ComponentPath(name string) string {
	return filepath.Join(s.ComponentsDir, name+".yml")
}

// LoadComponent reads, validates, and reconstructs a component, capturing
// the as-loaded snapshot for dirty tracking.
func (s *Store) LoadComponent(name string) (*domain.Component, error) {
	data, err := os.ReadFile(s.ComponentPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Kind: "component", Name: name}
		}
		return nil, fmt.Errorf("failed to read component %q: %w", name, err)
	}

	var doc domain.ComponentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse component %q: %w", name, err)
	}
	if err := schema.ValidateComponent(doc); err != nil {
		return nil, err
	}

	component, err := componentFromDoc(doc)
	if err != nil {
		return nil, err
	}
	component.Directory = s.ComponentsDir
	component.MarkLoaded()
	return component, nil
}

// SaveComponent persists a component when it differs from its as-loaded
// snapshot. A rename removes the old document after writing the new one. It
// returns true when a write happened.
func (s *Store) SaveComponent(component *domain.Component) (bool, error) {
	if !component.IsChanged() {
		logger.Debugf("Component %q unchanged, skipping write", component.Name)
		return false, nil
	}

	doc := component.Doc()
	if err := schema.ValidateComponent(doc); err != nil {
		return false, err
	}

	if err := os.MkdirAll(s.ComponentsDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create components dir: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode component %q: %w", component.Name, err)
	}
	if err := os.WriteFile(s.ComponentPath(component.Name), data, componentFileMode); err != nil {
		return false, fmt.Errorf("failed to write component %q: %w", component.Name, err)
	}

	if orig := component.OriginalName(); orig != "" && orig != component.Name {
		if err := os.Remove(s.ComponentPath(orig)); err != nil {
			return false, fmt.Errorf("failed to remove renamed component file %q: %w", orig, err)
		}
	}

	component.MarkLoaded()
	return true, nil
}

// ListComponents enumerates the names of every component document present.
func (s *Store) ListComponents() ([]string, error) {
	entries, err := os.ReadDir(s.ComponentsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list components: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yml"))
	}
	return names, nil
}

// LoadAll reconstructs every component in the registry.
func (s *Store) LoadAll() ([]*domain.Component, error) {
	names, err := s.ListComponents()
	if err != nil {
		return nil, err
	}

	components := make([]*domain.Component, 0, len(names))
	for _, name := range names {
		component, err := s.LoadComponent(name)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}
	return components, nil
}

// componentFromDoc flattens the per-series document groups back into the
// ordered release list.
func componentFromDoc(doc domain.ComponentDoc) (*domain.Component, error) {
	component, err := domain.NewComponent(doc.Name, doc.RepoURL, *doc.IsProduct)
	if err != nil {
		return nil, err
	}
	for _, series := range doc.Releases {
		for _, entry := range series.Versions {
			if _, err := component.CreateRelease(entry.Version, entry.Sha, series.Series); err != nil {
				return nil, err
			}
		}
	}
	return component, nil
}
