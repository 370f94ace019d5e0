package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	componentName string
	repoURL       string
	isProduct     bool
	newName       string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var componentCmd = &cobra.Command{
	Use:   "component",
	Short: "Manage registered components",
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var componentGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a component's registry document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		component, err := app.Components.Get(cmd.Context(), componentName)
		if err != nil {
			return err
		}
		return printYAML(component.Doc())
	},
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var componentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new component",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}
		component, err := app.Components.Add(cmd.Context(), componentName, repoURL, isProduct)
		if err != nil {
			return err
		}
		return printYAML(component.Doc())
	},
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var componentUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change a component's name, repository, or product flag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildAppContext(cmd.Context())
		if err != nil {
			return err
		}

		// The product flag is tri-state on update: leave it alone unless set.
		var productChange *bool
		if cmd.Flags().Changed("is-product") {
			productChange = &isProduct
		}

		component, err := app.Components.Update(
			cmd.Context(), componentName, newName, repoURL, productChange,
		)
		if err != nil {
			return err
		}
		return printYAML(component.Doc())
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	componentCmd.PersistentFlags().StringVar(
		&componentName, "component-name", "", "Name of the component",
	)
	_ = componentCmd.MarkPersistentFlagRequired("component-name")

	componentAddCmd.Flags().StringVar(
		&repoURL, "repo-url", "", "Component repository URL (https://github.com/...)",
	)
	_ = componentAddCmd.MarkFlagRequired("repo-url")
	componentAddCmd.Flags().BoolVar(
		&isProduct, "is-product", false, "Mark the component as a product",
	)

	componentUpdateCmd.Flags().StringVar(
		&repoURL, "repo-url", "", "New component repository URL",
	)
	componentUpdateCmd.Flags().StringVar(
		&newName, "new-name", "", "New component name (moves the document)",
	)
	componentUpdateCmd.Flags().BoolVar(
		&isProduct, "is-product", false, "New product flag value",
	)

	componentCmd.AddCommand(componentGetCmd, componentAddCmd, componentUpdateCmd)
	rootCmd.AddCommand(componentCmd)
}
