package application

// App bundles every service behind the CLI commands.
type App struct {
	Components   *ComponentService
	Releases     *ReleaseService
	Compare      *CompareService
	Dependencies *DependencyService
}

// NewApp wires the services together.
func NewApp(
	components *ComponentService,
	releases *ReleaseService,
	compare *CompareService,
	dependencies *DependencyService,
) *App {
	return &App{
		Components:   components,
		Releases:     releases,
		Compare:      compare,
		Dependencies: dependencies,
	}
}
