// touch-replay: replays a recorded touch journal into a running tangibled
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-tangible/internal/httpc"
	"github.com/teslashibe/go-tangible/internal/log"
	"github.com/teslashibe/go-tangible/pkg/journal"
	"github.com/teslashibe/go-tangible/pkg/protocol"
	"github.com/teslashibe/go-tangible/pkg/web"
)

var (
	server  = flag.String("server", "ws://localhost:8080/ws/touch/replay", "Touch ingestion WebSocket URL")
	path    = flag.String("journal", "touches", "Journal directory")
	session = flag.String("session", "", "Session to replay (empty lists sessions)")
	speed   = flag.Float64("speed", 1, "Playback speed; 0 sends without delay")
	level   = flag.String("log-level", "info", "Log level")
)

func main() {
	flag.Parse()
	log.Init(*level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	j, err := journal.Open(*path)
	if err != nil {
		return err
	}
	defer j.Close()

	if *session == "" {
		sessions, err := j.Sessions()
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Println(s)
		}
		return nil
	}

	conn, _, err := httpc.Dialer.DialContext(ctx, *server, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", *server, err)
	}
	defer conn.Close()

	go readReplies(conn)

	var last time.Time
	sent := 0
	err = j.Replay(*session, func(ev journal.TouchEvent) error {
		if *speed > 0 && !last.IsZero() {
			wait := time.Duration(float64(ev.Time.Sub(last)) / *speed)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		last = ev.Time

		msg, err := protocol.NewTouchMessage(protocol.Phase(ev.Phase), ev.TouchID, ev.X, ev.Y, ev.Radius)
		if err != nil {
			return err
		}
		data, err := msg.Bytes()
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		sent++
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("replay finished", "session", *session, "touches", sent)
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	if err := reportStatus(ctx); err != nil {
		log.Warn("status unavailable", "error", err)
	}
	return nil
}

// reportStatus logs the server's tangible counts after the replay.
func reportStatus(ctx context.Context) error {
	statusURL, err := httpc.HTTPURL(*server, "/api/status")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return err
	}
	resp, err := httpc.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var status web.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return err
	}
	log.Info("server state",
		"complete", status.Tangibles.Complete,
		"incomplete", status.Tangibles.Incomplete,
		"blocked", status.Tangibles.Blocked,
		"unassigned", status.Tangibles.Unassigned)
	return nil
}

// readReplies logs errors the server reports for replayed touches.
func readReplies(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		if msg.Type == protocol.TypeError {
			if e, err := msg.GetErrorData(); err == nil {
				log.Warn("server rejected touch", "error", e.Message)
			}
		}
	}
}
