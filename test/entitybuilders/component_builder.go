package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/releaseforge/domain"
)

// ComponentBuilder helps create test components with a fluent interface.
type ComponentBuilder struct {
	*testkit.BaseBuilder
	name      string
	repoURL   string
	isProduct bool
	versions  []string
	series    string
}

// NewComponentBuilder creates a new component builder with sensible defaults.
func NewComponentBuilder() *ComponentBuilder {
	return &ComponentBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-component",
		repoURL:     "https://github.com/test-org/test-component",
		isProduct:   false,
		series:      "main",
	}
}

// WithName sets the component name.
func (b *ComponentBuilder) WithName(name string) *ComponentBuilder {
	b.name = name
	return b
}

// WithRepoURL sets the repository URL.
func (b *ComponentBuilder) WithRepoURL(repoURL string) *ComponentBuilder {
	b.repoURL = repoURL
	return b
}

// WithIsProduct sets the product flag.
func (b *ComponentBuilder) WithIsProduct(isProduct bool) *ComponentBuilder {
	b.isProduct = isProduct
	return b
}

// WithSeries sets the series label used for built releases.
func (b *ComponentBuilder) WithSeries(series string) *ComponentBuilder {
	b.series = series
	return b
}

// WithVersions appends releases for the given version identifiers. Each
// release gets a deterministic commit hash derived from its position.
func (b *ComponentBuilder) WithVersions(versions ...string) *ComponentBuilder {
	b.versions = append(b.versions, versions...)
	return b
}

// Build creates the component (satisfies testkit.Builder interface).
func (b *ComponentBuilder) Build() interface{} {
	return b.BuildComponent()
}

// BuildComponent creates the component with a concrete return type. It
// panics on invalid input so misconfigured tests fail loudly.
func (b *ComponentBuilder) BuildComponent() *domain.Component {
	component, err := domain.NewComponent(b.name, b.repoURL, b.isProduct)
	if err != nil {
		panic(err)
	}
	for i, version := range b.versions {
		sha := fmt.Sprintf("%040x", i+1)
		if _, err := component.CreateRelease(version, sha, b.series); err != nil {
			panic(err)
		}
	}
	return component
}

// Reset clears the builder state, allowing it to be reused.
func (b *ComponentBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-component"
	b.repoURL = "https://github.com/test-org/test-component"
	b.isProduct = false
	b.versions = nil
	b.series = "main"
	return b
}

// Clone creates a deep copy of the ComponentBuilder.
func (b *ComponentBuilder) Clone() testkit.Builder {
	versions := make([]string, len(b.versions))
	copy(versions, b.versions)
	return &ComponentBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		repoURL:     b.repoURL,
		isProduct:   b.isProduct,
		versions:    versions,
		series:      b.series,
	}
}
