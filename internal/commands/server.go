package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cartograph-io/cartograph/internal/api"
	"github.com/cartograph-io/cartograph/internal/collector"
	"github.com/cartograph-io/cartograph/internal/model"
	"github.com/cartograph-io/cartograph/internal/scheduler"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  `Start the HTTP API server serving the cluster model`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	// The publish hook fires on every successful build; the server it
	// notifies is created afterwards, hence the indirection.
	var server *api.Server

	builder := newBuilder(func(m *model.ClusterModel) {
		if server != nil {
			server.BroadcastModelEvent(api.EventModelPublished, api.NewModelSummary(m))
		}
	})

	server = api.New(cfg, builder)

	// Build the initial unrestricted model in the background so the
	// API comes up immediately; until the build lands, model routes
	// answer 503.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Model.BuildTimeout)
		defer cancel()
		if _, err := builder.GetModel(ctx, nil); err != nil {
			log.Printf("Initial model build failed: %v", err)
		}
	}()

	// Periodic refresh
	sched := scheduler.New(builder, cfg.Model.RefreshInterval, cfg.Model.BuildTimeout, cfg.Model.RefreshOnlyStale)
	sched.Start()
	defer sched.Stop()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		fmt.Println("\nShutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// newBuilder wires the inventory source, the optional identity
// directory and the model builder from the loaded config.
func newBuilder(hook func(*model.ClusterModel)) *collector.Builder {
	source := newSource()

	opts := []collector.Option{
		collector.WithDebug(cfg.Server.Debug),
	}
	if cfg.Identity.Enabled {
		opts = append(opts, collector.WithDirectory(newDirectory()))
	}
	if hook != nil {
		opts = append(opts, collector.WithPublishHook(hook))
	}

	return collector.New(source, opts...)
}
