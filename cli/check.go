// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/survey"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <form.xml>",
		Short: "Validate a questionnaire form and print its questions",
		Long: `Load a questionnaire form, check it against the questionnaire schema and
print the question catalog the server would extract from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
}

func runCheck(opts *RootOptions, path string, w io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read form: %w", err)
	}

	doc, err := survey.LoadAndValidateForm(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cat, err := survey.ExtractCatalog(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	return writeCatalogTable(w, cat)
}

func writeCatalogTable(w io.Writer, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tREQUIRED\tDOMAIN")
	for _, q := range cat.Questions() {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", q.ID, q.Kind(), q.Required, domain(q.Rule))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d questions\n", cat.Len())
	return err
}

func domain(rule catalog.Rule) string {
	switch r := rule.(type) {
	case catalog.DichotomousRule:
		return "0 or 1"
	case catalog.OrdinalScaleRule:
		return fmt.Sprintf("%d..%d", r.Min, r.Max)
	}
	return "text"
}
