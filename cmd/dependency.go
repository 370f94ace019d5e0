package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	dependencyDir  string
	dependencyName string
	constraints    []string
	downloadDir    string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var dependencyCmd = &cobra.Command{
	Use:   "dependency",
	Short: "Manage a component's dependency declarations and pins",
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var setDependencyCmd = &cobra.Command{
	Use:   "set-dependency",
	Short: "Declare or replace a dependency on a registered component",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		return app.Dependencies.SetDependency(
			cmd.Context(), dependencyDir, dependencyName, constraints,
		)
	},
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var updateRequirementsCmd = &cobra.Command{
	Use:   "update-requirements",
	Short: "Resolve declared dependencies into pinned requirements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		requirements, err := app.Dependencies.UpdateRequirements(cmd.Context(), dependencyDir)
		if err != nil {
			return err
		}
		return printYAML(requirements)
	},
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var downloadRequirementsCmd = &cobra.Command{
	Use:   "download-requirements",
	Short: "Materialise every pinned dependency at its pinned commit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		return app.Dependencies.DownloadRequirements(cmd.Context(), dependencyDir, downloadDir)
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	dependencyCmd.PersistentFlags().StringVar(
		&dependencyDir, "dependency-dir", ".",
		"Directory holding the component's dependency documents",
	)

	setDependencyCmd.Flags().StringVar(
		&dependencyName, "name", "", "Name of the registered component to depend on",
	)
	_ = setDependencyCmd.MarkFlagRequired("name")
	setDependencyCmd.Flags().StringArrayVar(
		&constraints, "constraint", nil,
		"Constraint expression, repeatable (e.g. 'version<2', 'branch==develop')",
	)

	downloadRequirementsCmd.Flags().StringVar(
		&downloadDir, "download-dir", "dependencies",
		"Directory the pinned dependencies are synced into",
	)

	dependencyCmd.AddCommand(setDependencyCmd, updateRequirementsCmd, downloadRequirementsCmd)
	rootCmd.AddCommand(dependencyCmd)
}
