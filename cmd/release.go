package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	releaseComponent string
	releaseVersion   string
	releaseSha       string
	seriesName       string
	predecessor      bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Manage component releases",
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var releaseGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a release, or the one immediately before it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		doc, err := app.Releases.Get(cmd.Context(), releaseComponent, releaseVersion, predecessor)
		if err != nil {
			return err
		}
		return printYAML(doc)
	},
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var releaseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new release for a component",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		doc, err := app.Releases.Add(
			cmd.Context(), releaseComponent, releaseVersion, releaseSha, seriesName,
		)
		if err != nil {
			return err
		}
		return printYAML(doc)
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	releaseCmd.PersistentFlags().StringVar(
		&releaseComponent, "component-name", "", "Name of the component",
	)
	releaseCmd.PersistentFlags().StringVar(
		&releaseVersion, "version", "", "Release version identifier",
	)
	_ = releaseCmd.MarkPersistentFlagRequired("component-name")
	_ = releaseCmd.MarkPersistentFlagRequired("version")

	releaseGetCmd.Flags().BoolVar(
		&predecessor, "pred", false, "Return the release immediately before the version",
	)

	releaseAddCmd.Flags().StringVar(
		&releaseSha, "sha", "", "Commit hash of the release (40 hex characters)",
	)
	releaseAddCmd.Flags().StringVar(
		&seriesName, "series-name", "", "Series the release belongs to",
	)
	_ = releaseAddCmd.MarkFlagRequired("sha")
	_ = releaseAddCmd.MarkFlagRequired("series-name")

	releaseCmd.AddCommand(releaseGetCmd, releaseAddCmd)
	rootCmd.AddCommand(releaseCmd)
}
