package web

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-tangible/pkg/protocol"
)

// TouchHandler applies one touch from a source. Touch ids are already
// scoped to the source.
type TouchHandler func(sourceID string, touch *protocol.TouchData) error

// TouchSource is a connected touch digitizer.
type TouchSource struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	// live touches by scoped id with their last position
	live map[string]protocol.TouchData

	mu sync.Mutex
}

// Send writes a message to the source.
func (s *TouchSource) Send(msg *protocol.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

// Sources manages websocket connections that stream touches in.
type Sources struct {
	mu      sync.RWMutex
	sources map[string]*TouchSource
	logger  *slog.Logger

	onTouch TouchHandler

	messagesReceived atomic.Uint64
	touchesReceived  atomic.Uint64
	touchErrors      atomic.Uint64
}

// NewSources creates a source registry that hands touches to onTouch.
func NewSources(onTouch TouchHandler, logger *slog.Logger) *Sources {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sources{
		sources: make(map[string]*TouchSource),
		logger:  logger.With("component", "sources"),
		onTouch: onTouch,
	}
}

// ScopedTouchID namespaces a source-local touch id.
func ScopedTouchID(sourceID, touchID string) string {
	return sourceID + "/" + touchID
}

// handleSource runs the read loop of one source connection.
func (h *Sources) handleSource(c *websocket.Conn) {
	sourceID := c.Params("id")
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	now := time.Now()
	src := &TouchSource{
		ID:        sourceID,
		Conn:      c,
		Connected: now,
		LastSeen:  now,
		live:      make(map[string]protocol.TouchData),
	}

	h.mu.Lock()
	if _, taken := h.sources[sourceID]; taken {
		h.mu.Unlock()
		msg, _ := protocol.NewErrorMessage(ErrSourceInUse)
		src.Send(msg)
		return
	}
	h.sources[sourceID] = src
	count := len(h.sources)
	h.mu.Unlock()

	h.logger.Info("touch source connected", "source", sourceID, "total", count)

	defer func() {
		h.cancelLive(src)

		h.mu.Lock()
		delete(h.sources, sourceID)
		count := len(h.sources)
		h.mu.Unlock()

		h.logger.Info("touch source disconnected", "source", sourceID, "total", count)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			h.logger.Debug("touch source read error", "source", sourceID, "error", err)
			return
		}

		src.mu.Lock()
		src.LastSeen = time.Now()
		src.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(src, data)
	}
}

// handleMessage processes one frame from a source.
func (h *Sources) handleMessage(src *TouchSource, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		h.reply(src, err)
		return
	}

	switch msg.Type {
	case protocol.TypeTouch:
		touch, err := msg.GetTouchData()
		if err != nil {
			h.reply(src, err)
			return
		}
		h.touchesReceived.Add(1)
		if err := h.apply(src, touch); err != nil {
			h.touchErrors.Add(1)
			h.reply(src, err)
		}

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			h.reply(src, err)
			return
		}
		pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli())
		if err == nil {
			src.Send(pong)
		}

	default:
		h.reply(src, ErrUnexpectedMessage)
	}
}

func (h *Sources) apply(src *TouchSource, touch *protocol.TouchData) error {
	scoped := *touch
	scoped.TouchID = ScopedTouchID(src.ID, touch.TouchID)

	if err := h.onTouch(src.ID, &scoped); err != nil {
		return err
	}

	src.mu.Lock()
	switch touch.Phase {
	case protocol.PhaseBegan, protocol.PhaseMoved:
		src.live[scoped.TouchID] = scoped
	default:
		delete(src.live, scoped.TouchID)
	}
	src.mu.Unlock()
	return nil
}

// cancelLive cancels the touches a disconnecting source left down.
func (h *Sources) cancelLive(src *TouchSource) {
	src.mu.Lock()
	live := src.live
	src.live = make(map[string]protocol.TouchData)
	src.mu.Unlock()

	for _, touch := range live {
		touch.Phase = protocol.PhaseCancelled
		if err := h.onTouch(src.ID, &touch); err != nil {
			h.logger.Debug("cancel touch failed", "source", src.ID, "touch", touch.TouchID, "error", err)
		}
	}
}

func (h *Sources) reply(src *TouchSource, err error) {
	h.logger.Debug("touch source error", "source", src.ID, "error", err)
	msg, mErr := protocol.NewErrorMessage(err)
	if mErr != nil {
		return
	}
	src.Send(msg)
}

// Count returns the number of connected sources.
func (h *Sources) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sources)
}

// SourceStats contains ingestion statistics.
type SourceStats struct {
	Sources          int    `json:"sources"`
	MessagesReceived uint64 `json:"messages_received"`
	TouchesReceived  uint64 `json:"touches_received"`
	TouchErrors      uint64 `json:"touch_errors"`
}

// Stats returns ingestion statistics.
func (h *Sources) Stats() SourceStats {
	return SourceStats{
		Sources:          h.Count(),
		MessagesReceived: h.messagesReceived.Load(),
		TouchesReceived:  h.touchesReceived.Load(),
		TouchErrors:      h.touchErrors.Load(),
	}
}

// SourceInfo describes a connected source.
type SourceInfo struct {
	ID          string    `json:"id"`
	Connected   time.Time `json:"connected"`
	LastSeen    time.Time `json:"last_seen"`
	LiveTouches int       `json:"live_touches"`
}

// Infos returns the connected sources.
func (h *Sources) Infos() []SourceInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]SourceInfo, 0, len(h.sources))
	for _, s := range h.sources {
		s.mu.Lock()
		infos = append(infos, SourceInfo{
			ID:          s.ID,
			Connected:   s.Connected,
			LastSeen:    s.LastSeen,
			LiveTouches: len(s.live),
		})
		s.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers the source listing routes.
func (h *Sources) RegisterAPIRoutes(api fiber.Router) {
	sources := api.Group("/sources")

	sources.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sources": h.Infos(),
			"count":   h.Count(),
		})
	})

	sources.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.Stats())
	})
}
