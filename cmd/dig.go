package cmd

import (
	"path/filepath"

	"go.uber.org/dig"

	"github.com/rios0rios0/releaseforge/application"
	"github.com/rios0rios0/releaseforge/config"
	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/gitclient"
	"github.com/rios0rios0/releaseforge/infrastructure/storage"
)

// registryPaths carries the resolved registry locations through the
// container.
type registryPaths struct {
	ReleasesDir   string
	ComponentsDir string
}

func newRepoClient() domain.RepoClient {
	return gitclient.New()
}

// injectAppContext builds the service container bottom-up: paths and git
// client, then the store, then the application services.
func injectAppContext(cfg *config.Config, dir string) (*application.App, error) {
	container := dig.New()

	providers := []any{
		func() registryPaths {
			return registryPaths{
				ReleasesDir:   dir,
				ComponentsDir: filepath.Join(dir, cfg.Registry.ComponentsDir),
			}
		},
		newRepoClient,
		func(paths registryPaths) *storage.Store {
			return storage.NewStore(paths.ComponentsDir)
		},
		func(store *storage.Store, git domain.RepoClient, paths registryPaths) *application.ComponentService {
			return application.NewComponentService(store, git, paths.ReleasesDir)
		},
		func(store *storage.Store, git domain.RepoClient, paths registryPaths) *application.ReleaseService {
			return application.NewReleaseService(store, git, paths.ReleasesDir)
		},
		func(store *storage.Store, git domain.RepoClient, paths registryPaths) *application.CompareService {
			return application.NewCompareService(store, git, paths.ReleasesDir)
		},
		func(store *storage.Store, git domain.RepoClient) *application.DependencyService {
			return application.NewDependencyService(store, git)
		},
		application.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	var app *application.App
	if err := container.Invoke(func(a *application.App) {
		app = a
	}); err != nil {
		return nil, err
	}
	return app, nil
}
