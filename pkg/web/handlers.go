package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/hub"
	"github.com/teslashibe/go-tangible/pkg/protocol"
	"github.com/teslashibe/go-tangible/pkg/tangible"
)

// handleHealth reports liveness
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"sources": s.sources.Count(),
		"clients": s.events.ClientCount(),
	})
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Tangibles    tangible.Stats `json:"tangibles"`
	Sources      SourceStats    `json:"sources"`
	EventClients int            `json:"event_clients"`
	Dropped      uint64         `json:"dropped"`
	Touches      int            `json:"touches"`
	Policy       string         `json:"policy"`
}

// handleStatus returns recognizer and connection counters
func (s *Server) handleStatus(c *fiber.Ctx) error {
	var resp StatusResponse
	s.surface.Do(func(m *tangible.Manager) {
		resp.Tangibles = m.Stats()
		resp.Policy = m.Config().AcceptPolicy.String()
	})
	resp.Sources = s.sources.Stats()
	resp.EventClients = s.events.ClientCount()
	resp.Dropped = s.events.Dropped()
	resp.Touches = s.surface.Touches()
	return c.JSON(resp)
}

// handleTangibles returns every tracked tangible
func (s *Server) handleTangibles(c *fiber.Ctx) error {
	out := make([]protocol.TangibleState, 0)
	s.surface.Do(func(m *tangible.Manager) {
		groups := []struct {
			state tangible.State
			items []*tangible.Tangible
		}{
			{tangible.StateComplete, m.CompleteTangibles()},
			{tangible.StateIncomplete, m.IncompleteTangibles()},
			{tangible.StateBlocked, m.BlockedTangibles()},
		}
		for _, g := range groups {
			for _, t := range g.items {
				out = append(out, protocol.NewTangibleState(t, g.state))
			}
		}
	})
	return c.JSON(out)
}

// WhitelistEntry is the wire form of a whitelisted pattern.
type WhitelistEntry struct {
	Identifier string     `json:"identifier"`
	Radius     float64    `json:"radius"`
	Angles     [3]float64 `json:"angles"`
}

// handleWhitelist lists the whitelisted patterns
func (s *Server) handleWhitelist(c *fiber.Ctx) error {
	var out []WhitelistEntry
	s.surface.Do(func(m *tangible.Manager) {
		for _, e := range m.Patterns() {
			out = append(out, WhitelistEntry{
				Identifier: e.Identifier,
				Radius:     e.Pattern.Radius(),
				Angles:     e.Pattern.Angles(),
			})
		}
	})
	if out == nil {
		out = []WhitelistEntry{}
	}
	return c.JSON(out)
}

// AddWhitelistRequest is the body of POST /api/whitelist.
type AddWhitelistRequest struct {
	Identifier string       `json:"identifier"`
	Points     [][2]float64 `json:"points"`
}

// handleAddWhitelist registers a pattern given by three marker positions
func (s *Server) handleAddWhitelist(c *fiber.Ctx) error {
	var req AddWhitelistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Points) != tangible.MarkersPerTangible {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": tangible.ErrMarkerCount.Error()})
	}

	var points [tangible.MarkersPerTangible]r2.Vec
	for i, p := range req.Points {
		points[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	pattern, err := tangible.NewPatternFromPoints(points)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.surface.Do(func(m *tangible.Manager) {
		err = m.Whitelist(pattern, req.Identifier)
	})
	switch {
	case errors.Is(err, tangible.ErrIdentifierInUse), errors.Is(err, tangible.ErrPatternWhitelisted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.logger.Info("pattern whitelisted", "identifier", req.Identifier)
	s.observe()
	return c.Status(fiber.StatusCreated).JSON(WhitelistEntry{
		Identifier: req.Identifier,
		Radius:     pattern.Radius(),
		Angles:     pattern.Angles(),
	})
}

// handleEventsWS subscribes a connection to the event stream
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	s.observe()
	client.Run()
	s.observe()
}
