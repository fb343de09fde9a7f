// Package web serves the tangible recognizer over HTTP and websockets:
// touch ingestion, the live event stream, the whitelist API and metrics.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/hub"
	"github.com/teslashibe/go-tangible/pkg/journal"
	"github.com/teslashibe/go-tangible/pkg/metrics"
	"github.com/teslashibe/go-tangible/pkg/protocol"
	"github.com/teslashibe/go-tangible/pkg/surface"
	"github.com/teslashibe/go-tangible/pkg/tangible"
)

// shutdownTimeout bounds graceful shutdown of open connections.
const shutdownTimeout = 5 * time.Second

// Config holds optional server collaborators.
type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Journal *journal.Journal
	Session string

	// AccessLog enables per-request logging.
	AccessLog bool
}

// Option configures a Server.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithMetrics exposes c on /metrics and feeds it touch and collection data.
func WithMetrics(c *metrics.Collector) Option {
	return func(cfg *Config) { cfg.Metrics = c }
}

// WithJournal records every accepted touch under session.
func WithJournal(j *journal.Journal, session string) Option {
	return func(c *Config) {
		c.Journal = j
		c.Session = session
	}
}

// WithAccessLog logs every HTTP request.
func WithAccessLog(enabled bool) Option {
	return func(c *Config) { c.AccessLog = enabled }
}

// Server is the tangible HTTP and websocket server.
type Server struct {
	app    *fiber.App
	logger *slog.Logger

	surface *surface.Surface
	events  *hub.Hub
	sources *Sources

	metrics *metrics.Collector
	journal *journal.Journal
	session string
}

// NewServer wires routes around a surface and the hub its broadcaster
// publishes to.
func NewServer(sf *surface.Surface, events *hub.Hub, opts ...Option) *Server {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:  logger.With("component", "web"),
		surface: sf,
		events:  events,
		metrics: cfg.Metrics,
		journal: cfg.Journal,
		session: cfg.Session,
	}
	s.sources = NewSources(s.applyTouch, logger)

	app := fiber.New(fiber.Config{
		AppName:               "tangibled",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// CORS for browser dashboards
	app.Use(cors.New())
	if cfg.AccessLog {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tangibles", s.handleTangibles)
	api.Get("/whitelist", s.handleWhitelist)
	api.Post("/whitelist", s.handleAddWhitelist)
	s.sources.RegisterAPIRoutes(api)

	if s.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/touch", websocket.New(s.sources.handleSource))
	app.Get("/ws/touch/:id", websocket.New(s.sources.handleSource))

	s.app = app
	return s
}

// App returns the fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Sources returns the touch source registry.
func (s *Server) Sources() *Sources { return s.sources }

// Run serves on addr until ctx is cancelled. The event hub runs for the
// same lifetime.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.events.Run(ctx)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				s.logger.Warn("shutdown", "error", err)
			}
		case <-stopped:
		}
	}()

	s.logger.Info("listening", "addr", ln.Addr().String())
	if err := s.app.Listener(ln); err != nil {
		return fmt.Errorf("web: serve: %w", err)
	}
	return nil
}

// applyTouch feeds one scoped touch to the surface.
func (s *Server) applyTouch(_ string, touch *protocol.TouchData) error {
	p := r2.Vec{X: touch.X, Y: touch.Y}

	var err error
	switch touch.Phase {
	case protocol.PhaseBegan:
		_, err = s.surface.Began(touch.TouchID, p, touch.Radius)
	case protocol.PhaseMoved:
		err = s.surface.Moved(touch.TouchID, p, touch.Radius)
	case protocol.PhaseEnded:
		err = s.surface.Ended(touch.TouchID, p, touch.Radius)
	case protocol.PhaseCancelled:
		err = s.surface.Cancelled(touch.TouchID, p, touch.Radius)
	default:
		err = fmt.Errorf("web: unknown touch phase %q", touch.Phase)
	}
	if err != nil {
		return err
	}

	if s.journal != nil {
		rec := journal.TouchEvent{
			Phase:   string(touch.Phase),
			TouchID: touch.TouchID,
			X:       touch.X,
			Y:       touch.Y,
			Radius:  touch.Radius,
		}
		if jErr := s.journal.Record(s.session, rec); jErr != nil {
			s.logger.Warn("journal record failed", "error", jErr)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveTouch(string(touch.Phase))
		s.observe()
	}
	return nil
}

// observe refreshes the collection and client gauges.
func (s *Server) observe() {
	if s.metrics == nil {
		return
	}
	s.surface.Do(func(m *tangible.Manager) {
		s.metrics.ObserveStats(m.Stats())
	})
	s.metrics.ObserveClients(s.events.ClientCount())
}
