package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/galeria/app/jobs"
	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/pkg/broker"
	"github.com/shashiranjanraj/galeria/pkg/schedule"
)

var (
	queueWorkersFlag int
	eventsTopicFlag  string
	eventsGroupFlag  string
)

// galeria queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		k, closeKernel, err := boot(ctx)
		if err != nil {
			return err
		}
		defer closeKernel()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		wait := k.Queue.Start(ctx, workers)
		<-ctx.Done()
		wait()
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// galeria schedule:list
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the scheduled maintenance tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing only needs the task definitions, not live connections.
		s := schedule.New()
		if err := (&jobs.Maintenance{}).Schedule(s); err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TASK\tSCHEDULE")
		for _, e := range s.List() {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Spec)
		}
		return w.Flush()
	},
}

// galeria schedule:run [task]
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run [task]",
	Short: "Run the scheduler, or a single task once",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		k, closeKernel, err := boot(ctx)
		if err != nil {
			return err
		}
		defer closeKernel()

		s, err := k.Scheduler()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := s.RunNow(ctx, args[0]); err != nil {
				return err
			}
			// Jobs the task dispatched onto the memory queue would be lost on exit.
			_, err := k.Queue.Drain(ctx)
			return err
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		s.Run(ctx)
		fmt.Println("Scheduler stopped.")
		return nil
	},
}

// galeria events:tail
var eventsTailCmd = &cobra.Command{
	Use:   "events:tail",
	Short: "Print domain events from Kafka as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		if err := config.Load(); err != nil {
			return err
		}
		brokers := config.KafkaBrokers()
		if len(brokers) == 0 {
			return fmt.Errorf("events:tail: KAFKA_BROKERS is not set")
		}

		out := cmd.OutOrStdout()
		return broker.Consume(ctx, brokers, eventsTopicFlag, eventsGroupFlag,
			func(_ context.Context, env broker.Envelope, msg kafkaGo.Message) error {
				_, err := fmt.Fprintf(out, "%s  %-28s  %s\n",
					env.OccurredAt.Format("2006-01-02 15:04:05"), env.Type, msg.Key)
				return err
			})
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "Number of concurrent workers")
	eventsTailCmd.Flags().StringVar(&eventsTopicFlag, "topic", broker.TopicOrders, "Topic to follow")
	eventsTailCmd.Flags().StringVar(&eventsGroupFlag, "group", "galeria-tail-"+hostname(), "Consumer group id")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "local"
	}
	return h
}
