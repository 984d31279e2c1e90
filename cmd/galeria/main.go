// Command galeria runs the gallery API and its maintenance commands.
//
//	galeria serve             # HTTP + gRPC health, queue workers, scheduler
//	galeria migrate           # apply pending migrations
//	galeria migrate:rollback
//	galeria migrate:status
//	galeria seed              # admin user, demo catalogue, starter coupons
//	galeria route:list
//	galeria queue:work
//	galeria schedule:list
//	galeria schedule:run [task]
//	galeria events:tail       # follow the Kafka event stream
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations and seeders register themselves in init().
	_ "github.com/shashiranjanraj/galeria/database/migrations"
	_ "github.com/shashiranjanraj/galeria/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "galeria",
	Short:        "Galeria storefront and back-office API",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleListCmd)
	rootCmd.AddCommand(scheduleRunCmd)
	rootCmd.AddCommand(eventsTailCmd)
}
