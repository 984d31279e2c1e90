package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/database/seeders"
	"github.com/shashiranjanraj/galeria/pkg/database"
	"github.com/shashiranjanraj/galeria/pkg/migration"
)

// bootDB loads config and opens the SQL connection. Migrations cover the
// store tables and failed_jobs; with STORE_DRIVER=mongo only failed_jobs is
// used but the full set is still applied.
func bootDB(ctx context.Context) (*migration.Runner, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(ctx); err != nil {
		return nil, err
	}
	return migration.New(database.DB, migration.GroupStore, migration.GroupQueue), nil
}

// galeria migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		ran, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		for _, name := range ran {
			fmt.Println("Migrated:", name)
		}
		return nil
	},
}

// galeria migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		rolled, err := runner.Rollback(ctx)
		if err != nil {
			return err
		}
		if len(rolled) == 0 {
			fmt.Println("Nothing to roll back.")
		}
		for _, name := range rolled {
			fmt.Println("Rolled back:", name)
		}
		return nil
	},
}

// galeria migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		rows, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tGROUP\tRAN\tBATCH")
		for _, s := range rows {
			ran, batch := "no", "-"
			if s.Ran {
				ran, batch = "yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Group, ran, batch)
		}
		return w.Flush()
	},
}

// galeria seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all seeders against the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		k, closeKernel, err := boot(ctx)
		if err != nil {
			return err
		}
		defer closeKernel()
		return seeders.RunAll(ctx, k.Store, cmd.OutOrStdout())
	},
}
