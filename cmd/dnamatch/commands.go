package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pg "dnamatch/internal/adapters/postgres"
	"dnamatch/internal/adapters/sqlite"
	"dnamatch/internal/alignment"
	"dnamatch/internal/config"
	"dnamatch/internal/domain"
	"dnamatch/internal/fasta"
	"dnamatch/internal/services/comparison"
)

func readSequence(path string) (string, error) {
	seq, err := fasta.ExtractFile(path, domain.MaxSequenceLength)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return seq, nil
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file-a> <file-b>",
		Short: "Score two sequence files against each other",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readSequence(args[0])
			if err != nil {
				return err
			}
			b, err := readSequence(args[1])
			if err != nil {
				return err
			}
			resp, err := comparison.New(alignment.Default(), nil).Compare(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, resp)
			}
			printCompare(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Find the exact registry match for a sequence file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSequence(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			resp, err := a.Identification.Identify(cmd.Context(), query, status)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, resp)
			}
			printIdentify(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.FilterAll), "Registry status to search (missing, acknowledged, crime, disaster or all)")
	return cmd
}

func newMissingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "missing <file>",
		Short: "Find the exact registry match and probable relatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSequence(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			resp, err := a.MissingPerson.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, resp)
			}
			printMissing(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the population table for the configured database source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			switch cfg.Population.Source {
			case config.SourcePostgres:
				if err := pg.Migrate(cmd.Context(), cfg.Population.DatabaseURL); err != nil {
					return fmt.Errorf("migrate postgres: %w", err)
				}
			case config.SourceSQLite:
				store, err := sqlite.OpenReadWrite(cfg.Population.SQLitePath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.EnsureSchema(cmd.Context()); err != nil {
					return err
				}
			default:
				return fmt.Errorf("migrate: source %q has no schema", cfg.Population.Source)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema up to date\n", cfg.Population.Source)
			return nil
		},
	}
}
