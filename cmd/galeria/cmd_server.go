package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/galeria/app/routes"
	"github.com/shashiranjanraj/galeria/internal/kernel"
	"github.com/shashiranjanraj/galeria/internal/server"
	"github.com/shashiranjanraj/galeria/pkg/router"
)

var (
	serveWorkersFlag  int
	serveScheduleFlag bool
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// boot starts the kernel and returns a func that closes it.
func boot(ctx context.Context) (*kernel.Kernel, func(), error) {
	k, err := kernel.Boot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return k, func() {
		if err := k.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
	}, nil
}

// galeria serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the gRPC health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		k, closeKernel, err := boot(ctx)
		if err != nil {
			return err
		}
		defer closeKernel()

		workers := serveWorkersFlag
		if !cmd.Flags().Changed("workers") {
			workers = kernel.QueueWorkers()
		}
		return server.Start(ctx, k, server.Options{Workers: workers, Schedule: serveScheduleFlag})
	},
}

// galeria route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout())
	},
}

// printRoutes builds the route table without booting anything; handlers are
// never invoked.
func printRoutes(out io.Writer) error {
	r := router.New()
	routes.RegisterAPI(r, &routes.Handlers{})

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range r.Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

func init() {
	serveCmd.Flags().IntVarP(&serveWorkersFlag, "workers", "w", 4, "In-process queue workers (0 to disable; defaults to QUEUE_WORKERS)")
	serveCmd.Flags().BoolVar(&serveScheduleFlag, "schedule", true, "Run the maintenance scheduler in-process")
}
