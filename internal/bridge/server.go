// Package bridge exposes a running engine to out-of-process hosts (the
// original visualizer is a browser) over websockets: JSON commands in,
// JSON snapshots out, plus a Prometheus endpoint for operational health.
package bridge

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/orbitkit/gravsim/internal/engine"
)

// clientBuffer is one snapshot deep: a host that lags sees the newest state,
// mirroring the engine's own latest-wins delivery.
const clientBuffer = 1

type client struct {
	conn *websocket.Conn
	send chan engine.Snapshot
}

type Server struct {
	eng       *engine.Engine
	collector *Collector
	// snapshotRate caps forwarded snapshots per second per client; excess
	// ticks are skipped, not queued.
	snapshotRate rate.Limit

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func New(eng *engine.Engine, collector *Collector, snapshotsPerSecond float64) *Server {
	if snapshotsPerSecond <= 0 {
		snapshotsPerSecond = 60
	}
	return &Server{
		eng:          eng,
		collector:    collector,
		snapshotRate: rate.Limit(snapshotsPerSecond),
		upgrader: websocket.Upgrader{
			// Browser hosts connect cross-origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Broadcast pumps engine snapshots to every connected client until ctx is
// cancelled. Run it in its own goroutine alongside engine.Run.
func (s *Server) Broadcast(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-s.eng.Snapshots():
			s.collector.snapshotsTotal.Inc()
			s.mu.Lock()
			for c := range s.clients {
				select {
				case c.send <- snap:
				default:
					// Stale undelivered snapshot: replace it.
					select {
					case <-c.send:
					default:
					}
					select {
					case c.send <- snap:
					default:
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

// ServeHTTP upgrades the connection and runs the per-client read and write
// loops. Command errors never propagate to the engine; the previous valid
// state simply keeps simulating.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan engine.Snapshot, clientBuffer)}
	s.register(c)
	defer s.unregister(c)

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.collector.clients.Set(float64(len(s.clients)))
	s.mu.Unlock()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.collector.clients.Set(float64(len(s.clients)))
	s.mu.Unlock()
	c.conn.Close()
}

func (s *Server) readLoop(c *client) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, cmdType, err := decodeCommand(raw)
		if err != nil {
			log.Printf("bridge: ignoring command: %v", err)
			s.collector.RecordCommand("invalid")
			continue
		}
		s.collector.RecordCommand(cmdType)
		s.eng.Post(cmd)
	}
}

func (s *Server) writeLoop(c *client) {
	limiter := rate.NewLimiter(s.snapshotRate, 1)
	for snap := range c.send {
		if !limiter.Allow() {
			continue
		}
		data, err := encodeSnapshot(snap)
		if err != nil {
			log.Printf("bridge: encode snapshot: %v", err)
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
