// Package cmd holds the cobra command tree. Commands stay thin: flag
// parsing, registry location resolution, and YAML rendering; everything
// else lives in the application services.
package cmd

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/releaseforge/application"
	"github.com/rios0rios0/releaseforge/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	releasesDir  string
	releasesRepo string
	configPath   string
	verbose      bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "releaseforge",
	Short: "Version registry manager for released components",
	Long: `A CLI tool that manages a git-backed registry of released components:
their repositories, release histories, and the constraints components
place on each other.

The registry is a git repository of YAML documents, one per component.
Every mutating command writes the document and commits it, so a commit
is the unit of visibility for other readers. On top of the registry the
tool resolves dependency constraints into pinned requirements, compares
registry snapshots across revisions, and verifies that a change set
represents exactly one release or one registration.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVar(
		&releasesDir, "releases-dir", "",
		"Path to an existing registry checkout (skips cloning)",
	)
	rootCmd.PersistentFlags().StringVar(
		&releasesRepo, "releases-repo", "",
		"Registry repository URL (cloned to the cache directory)",
	)
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "",
		"Path to the config file (default: search standard locations)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
}

// loadConfig resolves the effective configuration: the explicit --config
// path, then the standard file locations, then built-in defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	path, err := config.FindConfigFile()
	if err != nil {
		logger.Debug("No config file found, using defaults")
		return config.Default(), nil
	}
	logger.Infof("Using config file: %s", path)
	return config.Load(path)
}

// resolveRegistry makes the registry available on disk and returns its
// working tree path. An explicit --releases-dir is used as-is; otherwise the
// registry repository is cloned or pulled into the cache directory.
func resolveRegistry(ctx context.Context, cfg *config.Config) (string, error) {
	if releasesDir != "" {
		if _, err := os.Stat(releasesDir); err != nil {
			return "", fmt.Errorf("releases directory %q is not accessible: %w", releasesDir, err)
		}
		return releasesDir, nil
	}

	repoURL := releasesRepo
	if repoURL == "" {
		repoURL = cfg.Registry.RepoURL
	}
	if repoURL == "" {
		return "", fmt.Errorf(
			"no registry location: pass --releases-dir or --releases-repo, or set registry.repo_url",
		)
	}

	dir := cfg.Registry.CacheDir
	logger.Infof("Syncing registry %s into %s", repoURL, dir)
	if err := newRepoClient().EnsureClone(ctx, repoURL, dir, cfg.Registry.Branch); err != nil {
		return "", err
	}
	return dir, nil
}

// buildAppContext resolves config and registry location and wires the
// service container.
func buildAppContext(ctx context.Context) (*application.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := resolveRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return injectAppContext(cfg, dir)
}

// printYAML renders a command result on stdout.
func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
