// tangibled: tangible recognition server
// Accepts touch streams over WebSocket and publishes tangible events
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/teslashibe/go-tangible/internal/config"
	"github.com/teslashibe/go-tangible/internal/log"
	"github.com/teslashibe/go-tangible/pkg/hub"
	"github.com/teslashibe/go-tangible/pkg/journal"
	"github.com/teslashibe/go-tangible/pkg/metrics"
	"github.com/teslashibe/go-tangible/pkg/surface"
	"github.com/teslashibe/go-tangible/pkg/tangible"
	"github.com/teslashibe/go-tangible/pkg/web"
)

var (
	version   = "0.1.0"
	accessLog = flag.Bool("access-log", false, "Log every HTTP request")
	session   = flag.String("session", "", "Journal session id (default: random)")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error("tangibled failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.L()
	logger.Info("starting tangibled", "version", version, "addr", cfg.Addr(), "policy", cfg.AcceptPolicy)

	events := hub.New("events", logger)
	broadcaster := web.NewBroadcaster(events, logger)
	collector := metrics.New()

	opts := append(cfg.ManagerOptions(),
		tangible.WithSink(tangible.MultiSink{broadcaster, collector}),
		tangible.WithLogger(logger),
	)
	mgr, err := tangible.NewManager(opts...)
	if err != nil {
		return err
	}
	broadcaster.Attach(mgr)

	serverOpts := []web.Option{
		web.WithLogger(logger),
		web.WithMetrics(collector),
		web.WithAccessLog(*accessLog),
	}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()

		id := *session
		if id == "" {
			id = uuid.NewString()
		}
		logger.Info("recording touches", "journal", cfg.JournalPath, "session", id)
		serverOpts = append(serverOpts, web.WithJournal(j, id))
	}

	srv := web.NewServer(surface.New(mgr, logger), events, serverOpts...)
	err = srv.Run(ctx, cfg.Addr())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("goodbye")
	return nil
}
