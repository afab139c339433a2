// Package server streams simulation frames to websocket clients. A single
// loop goroutine owns the simulation and broadcasts a JSON frame per tick;
// clients that cannot keep up are dropped.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

const clientBuffer = 8

// FrameBody is one body in a streamed frame.
type FrameBody struct {
	Mass float64 `json:"mass"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

// Frame is the JSON payload broadcast each tick.
type Frame struct {
	Time     float64     `json:"time"`
	Step     int         `json:"step"`
	Bodies   []FrameBody `json:"bodies"`
	Energy   float64     `json:"energy"`
	Momentum float64     `json:"momentum"`
}

type Options struct {
	Addr string
	// TickRate is broadcast frames per second.
	TickRate int
	// StepsPerTick is how many integration steps run between frames.
	StepsPerTick int
}

type Server struct {
	sim      *gravity.Simulation
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func New(s *gravity.Simulation, opts Options) *Server {
	if opts.TickRate < 1 {
		opts.TickRate = 30
	}
	if opts.StepsPerTick < 1 {
		opts.StepsPerTick = 1
	}
	return &Server{
		sim:  s,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Handler returns the HTTP handler exposing the /ws endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe runs the simulation loop and HTTP server until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}

	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Run drives the simulation and broadcasts frames until ctx is canceled.
// The loop goroutine is the only writer to the simulation.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := 0; i < s.opts.StepsPerTick; i++ {
				s.sim.Step()
			}
			data, err := json.Marshal(s.frame())
			if err != nil {
				log.Printf("frame marshal: %v", err)
				continue
			}
			s.broadcast(data)
		}
	}
}

func (s *Server) frame() Frame {
	bodies := s.sim.Bodies()
	fb := make([]FrameBody, len(bodies))
	for i, b := range bodies {
		fb[i] = FrameBody{
			Mass: b.Mass,
			X:    b.Position.X,
			Y:    b.Position.Y,
			VX:   b.Velocity.X,
			VY:   b.Velocity.Y,
		}
	}
	return Frame{
		Time:     s.sim.Time(),
		Step:     s.sim.Steps(),
		Bodies:   fb,
		Energy:   s.sim.TotalEnergy(),
		Momentum: s.sim.TotalMomentum().Norm(),
	}
}

func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn, ch := range s.clients {
		select {
		case ch <- data:
		default:
			// slow client: drop it rather than stall the loop
			delete(s.clients, conn)
			close(ch)
			conn.Close()
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	ch := make(chan []byte, clientBuffer)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	go func() {
		defer s.removeClient(conn)
		for data := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// drain reads so control frames are processed; exit closes the client
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	if ch, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(ch)
	}
	s.mu.Unlock()
	conn.Close()
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
