// Package server runs the HTTP API and the gRPC health endpoint side by side
// and shuts both down when ctx is cancelled.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/internal/kernel"
	"github.com/shashiranjanraj/galeria/pkg/grpc"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/queue"
	"github.com/shashiranjanraj/galeria/pkg/schedule"
)

const healthInterval = 15 * time.Second

// Options tune what Start runs besides the HTTP server.
type Options struct {
	// Workers is the number of in-process queue workers; zero disables them.
	Workers int
	// Schedule runs the maintenance scheduler in-process.
	Schedule bool
}

// Start serves until ctx is cancelled or a listener fails, then drains
// everything within kernel.ShutdownTimeout.
func Start(ctx context.Context, k *kernel.Kernel, opts Options) error {
	handler, err := k.Handler()
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: kernel.ReadHeaderTimeout,
	}
	var sched *schedule.Scheduler
	if opts.Schedule {
		if sched, err = k.Scheduler(); err != nil {
			return err
		}
	}

	grpcSrv := grpc.New()
	lis, err := net.Listen("tcp", ":"+config.GRPCPort())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http: serving", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return grpcSrv.Serve(lis) })
	g.Go(func() error {
		grpcSrv.WatchHealth(gctx, healthInterval, k.Ping)
		return nil
	})

	// Workers outlive gctx so jobs queued by in-flight listeners still run.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	var waitWorkers func()
	if opts.Workers > 0 {
		waitWorkers = k.Queue.Start(workerCtx, opts.Workers)
	}
	if sched != nil {
		g.Go(func() error {
			sched.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server: shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), kernel.ShutdownTimeout)
		defer cancel()

		grpcSrv.Stop(sctx)
		err := httpSrv.Shutdown(sctx)
		drainQueue(sctx, k.Events, k.Queue, stopWorkers, waitWorkers)
		return err
	})

	return g.Wait()
}

// drainQueue waits for async listeners to finish enqueueing, stops the
// workers, then runs whatever the in-memory driver still buffers.
func drainQueue(ctx context.Context, events interface{ Wait() }, q *queue.Manager, stopWorkers context.CancelFunc, waitWorkers func()) {
	events.Wait()
	stopWorkers()
	if waitWorkers != nil {
		waitWorkers()
	}
	n, err := q.Drain(ctx)
	if err != nil {
		logger.Error("queue: drain on shutdown failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("queue: drained on shutdown", "jobs", n)
	}
}
