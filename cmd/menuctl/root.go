package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"serveur/internal/app"
	"serveur/internal/config"
	"serveur/internal/core"
	"serveur/internal/db"
	"serveur/internal/logger"
	"serveur/internal/menu"
	"serveur/internal/pairing"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "Operator tools for the menu service",
		Long:          `menuctl bootstraps the database schema and runs the menu pipeline stages from the command line, without the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(), newPairCmd(), newExtractCmd())
	return root
}

func loadEnv() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Production: cfg.Production()})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ───────────────────────── migrate ─────────────────────────

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pool, err := db.ConnectPostgres(cmd.Context(), cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.InitSchema(cmd.Context(), pool, log)
		},
	}
}

// ───────────────────────── pair ─────────────────────────

func newPairCmd() *cobra.Command {
	var minConfidence float64
	var exposedOnly bool

	cmd := &cobra.Command{
		Use:   "pair <menu.json>",
		Short: "Compute wine pairings for a menu document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var doc core.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			pairings := pairing.NewEngine(minConfidence).Build(doc.Sections, doc.Wines)
			if exposedOnly {
				pairings = core.ExposedPairings(pairings)
			}
			return writeJSON(cmd.OutOrStdout(), pairings)
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", pairing.DefaultMinConfidence, "Drop pairings below this confidence")
	cmd.Flags().BoolVar(&exposedOnly, "exposed", false, "Print only pairings that name a wine")
	return cmd
}

// ───────────────────────── extract ─────────────────────────

func newExtractCmd() *cobra.Command {
	var languages []string
	var name string

	cmd := &cobra.Command{
		Use:   "extract <menu.pdf>",
		Short: "Run extraction, translation and pairing on a PDF and print the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := app.Build(ctx, cfg, menu.NewInMemoryRepository(), log)
			if err != nil {
				return err
			}

			doc, err := a.Menus.BuildDocument(ctx, pdf, name, a.Menus.ParseLanguages(languages))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringSliceVar(&languages, "languages", nil, "Target languages, e.g. en,fr,es")
	cmd.Flags().StringVar(&name, "name", "", "Restaurant name when the PDF has none")
	return cmd
}
