package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/releaseforge/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	fromRev    string
	toRev      string
	verifyMode string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the registry between two revisions",
	Long: `Compare the registry contents at two git revisions and report the
per-component differences as an added/deleted document pair.

With --verify the change set must have one of the allowed shapes:
'release' accepts exactly one new release and prints its document,
'registration' accepts exactly one new component and prints its
document. Any other change set fails with the rendered diff.`,
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, _ []string) error {
	app, err := buildAppContext(cmd.Context())
	if err != nil {
		return err
	}

	switch verifyMode {
	case "":
		comparison, err := app.Compare.Compare(cmd.Context(), fromRev, toRev)
		if err != nil {
			return err
		}
		return printYAML(comparisonOutput(comparison))
	case "release":
		doc, err := app.Compare.VerifyRelease(cmd.Context(), fromRev, toRev)
		if err != nil {
			return err
		}
		return printYAML(doc)
	case "registration":
		doc, err := app.Compare.VerifyRegistration(cmd.Context(), fromRev, toRev)
		if err != nil {
			return err
		}
		return printYAML(doc)
	default:
		return fmt.Errorf("unknown verify mode %q: expected release or registration", verifyMode)
	}
}

// comparisonOutput renders the comparison map with stable added/deleted keys.
func comparisonOutput(comparison domain.ComparisonMap) map[string]map[string]domain.ComponentDoc {
	out := make(map[string]map[string]domain.ComponentDoc, len(comparison))
	for name, entry := range comparison {
		out[name] = map[string]domain.ComponentDoc{
			"added":   entry.Added,
			"deleted": entry.Deleted,
		}
	}
	return out
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	compareCmd.Flags().StringVar(&fromRev, "from", "", "Older revision (any git rev)")
	compareCmd.Flags().StringVar(&toRev, "to", "", "Newer revision (any git rev)")
	_ = compareCmd.MarkFlagRequired("from")
	_ = compareCmd.MarkFlagRequired("to")
	compareCmd.Flags().StringVar(
		&verifyMode, "verify", "",
		"Require the change set shape: release or registration",
	)

	rootCmd.AddCommand(compareCmd)
}
