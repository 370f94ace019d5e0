package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/schema"
)

const (
	// MetadataFilename is the per-component dependency metadata document.
	MetadataFilename = "component_metadata.yml"

	// RequirementsFilename is the machine-generated pinned requirements
	// document.
	RequirementsFilename = "component_requirements.yml"
)

// requirementsHeader warns readers away from hand-editing the generated
// document.
const requirementsHeader = "# Do not modify by hand. This file is automatically generated from" +
	" the required dependencies and the constraints specified for them.\n"

// LoadMetadata reads and validates a dependency directory's metadata
// document. A missing file yields an empty document.
func LoadMetadata(dir string) (domain.MetadataDoc, error) {
	var doc domain.MetadataDoc

	data, err := os.ReadFile(filepath.Join(dir, MetadataFilename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("failed to read %s: %w", MetadataFilename, err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse %s: %w", MetadataFilename, err)
	}
	if err := schema.ValidateMetadata(doc); err != nil {
		return domain.MetadataDoc{}, err
	}
	return doc, nil
}

// SaveMetadata validates and writes the metadata document.
func SaveMetadata(dir string, doc domain.MetadataDoc) error {
	if err := schema.ValidateMetadata(doc); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", MetadataFilename, err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFilename), data, componentFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", MetadataFilename, err)
	}
	return nil
}

// SetDependency upserts one dependency entry, replacing the constraint list
// of an existing entry with the same name.
func SetDependency(doc domain.MetadataDoc, name string, constraints []string) domain.MetadataDoc {
	updated := doc
	updated.Dependencies = make([]domain.DependencyDecl, len(doc.Dependencies))
	copy(updated.Dependencies, doc.Dependencies)

	for i, dependency := range updated.Dependencies {
		if dependency.Name == name {
			updated.Dependencies[i].Constraints = constraints
			return updated
		}
	}

	updated.Dependencies = append(updated.Dependencies, domain.DependencyDecl{
		Name:        name,
		Constraints: constraints,
	})
	return updated
}

// MetadataEqual reports whether two metadata documents carry the same
// content.
func MetadataEqual(a, b domain.MetadataDoc) bool {
	return reflect.DeepEqual(a, b)
}

// LoadRequirements reads and validates the pinned requirements document. A
// missing file yields an empty document.
func LoadRequirements(dir string) (domain.RequirementsDoc, error) {
	var doc domain.RequirementsDoc

	data, err := os.ReadFile(filepath.Join(dir, RequirementsFilename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("failed to read %s: %w", RequirementsFilename, err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse %s: %w", RequirementsFilename, err)
	}
	if err := schema.ValidateRequirements(doc); err != nil {
		return domain.RequirementsDoc{}, err
	}
	return doc, nil
}

// SaveRequirements validates and writes the requirements document with its
// do-not-edit header.
func SaveRequirements(dir string, doc domain.RequirementsDoc) error {
	if err := schema.ValidateRequirements(doc); err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", RequirementsFilename, err)
	}
	out := append([]byte(requirementsHeader), data...)
	if err := os.WriteFile(filepath.Join(dir, RequirementsFilename), out, componentFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", RequirementsFilename, err)
	}
	return nil
}

// RequirementsEqual reports whether two requirements documents pin the same
// dependencies.
func RequirementsEqual(a, b domain.RequirementsDoc) bool {
	if len(a.Dependencies) != len(b.Dependencies) {
		return false
	}
	for i := range a.Dependencies {
		if !requirementEqual(a.Dependencies[i], b.Dependencies[i]) {
			return false
		}
	}
	return true
}

func requirementEqual(a, b domain.Requirement) bool {
	if a.Name != b.Name || a.Ref != b.Ref || a.RefType != b.RefType ||
		a.RepoURL != b.RepoURL || a.Sha != b.Sha {
		return false
	}
	if a.Version == nil || b.Version == nil {
		return a.Version == b.Version
	}
	return *a.Version == *b.Version
}
