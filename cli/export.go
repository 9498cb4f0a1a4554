// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/survey"
)

// ExportOptions holds the flags of the export command.
type ExportOptions struct {
	SurveyID string
	Sep      string
	SepLine  bool
	Out      string
}

// NewExportCommand creates the export command. Arguments after "--" are
// server flags and select the database the same way serve does.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export --survey <id> [-o file.csv] [-- server flags]",
		Short: "Write a survey's responses as delimited text",
		Example: `  quickly-survey export --survey 3fa2 -o responses.csv
  quickly-survey export --survey 3fa2 --sep ";" --sepline -- -t postgres -d postgres://...`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.SurveyID == "" {
				return errors.New("--survey is required")
			}
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return err
			}

			logger, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			return runExport(cmd.Context(), store, opts, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&opts.SurveyID, "survey", "", "survey id")
	cmd.Flags().StringVar(&opts.Sep, "sep", export.DefaultSeparator, "field separator")
	cmd.Flags().BoolVar(&opts.SepLine, "sepline", false, `start with a "sep=" line for spreadsheet applications`)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(ctx context.Context, store *db.Store, opts *ExportOptions, stdout io.Writer, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sv, err := store.GetSurvey(ctx, opts.SurveyID)
	if err != nil {
		return err
	}
	if sv.QuestionnaireID == "" {
		return fmt.Errorf("survey %s has no questionnaire", sv.ID)
	}
	q, err := store.GetQuestionnaire(ctx, sv.QuestionnaireID)
	if err != nil {
		return err
	}
	if !q.HasForm() {
		return fmt.Errorf("questionnaire %s has no form", q.ID)
	}

	svc := survey.NewService(store, nil)
	cat, err := svc.Catalog(q.ID, q.Version, []byte(q.FormXML))
	if err != nil {
		return fmt.Errorf("stored form of questionnaire %s: %w", q.ID, err)
	}

	text, err := svc.ExportSurveyResponses(ctx, sv.ID, cat, export.Options{
		Separator: opts.Sep,
		SepLine:   opts.SepLine,
	})
	if err != nil {
		return err
	}

	if opts.Out == "" {
		if _, err := io.WriteString(stdout, text); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	} else if err := os.WriteFile(opts.Out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Info("export written",
		"survey_id", sv.ID,
		"questions", cat.Len(),
		"size", humanize.Bytes(uint64(len(text))),
	)
	return nil
}
