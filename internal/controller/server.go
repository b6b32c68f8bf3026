// Package controller turns a phone into a MoonWalk controller. The phone
// opens the served page, which streams accelerometer samples and jump taps
// over a websocket.
package controller

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

//go:embed static/index.html
var indexPage []byte

// Message types accepted on /ws.
const (
	MsgTilt = "tilt"
	MsgJump = "jump"
)

const (
	readLimit    = 1024
	readDeadline = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second

	// maxTiltSample bounds a raw sample; a phone at rest reports about 1g.
	maxTiltSample = 4.0
)

// Message is one controller frame.
type Message struct {
	Type  string  `json:"type"`
	Value float64 `json:"value,omitempty"`
}

// TiltSink receives raw accelerometer samples.
type TiltSink interface {
	Sample(raw float64) float64
}

// Server serves the controller page and its websocket.
type Server struct {
	tilt    TiltSink
	onJump  func()
	logger  *log.Logger
	router  *gin.Engine
	started time.Time

	mu  sync.Mutex
	srv *http.Server

	clients atomic.Int32
	samples atomic.Int64
	jumps   atomic.Int64

	upgrader websocket.Upgrader
}

// New builds a controller. onJump is called from connection goroutines and
// must hand the request over to the game thread.
func New(tilt TiltSink, onJump func(), logger *log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		tilt:    tilt,
		onJump:  onJump,
		logger:  logger,
		router:  gin.New(),
		started: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page is served by this same process on the LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if s.onJump == nil {
		s.onJump = func() {}
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info("controller listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server. Hijacked websocket connections are not
// tracked; they end at their read deadline or when the peer leaves.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "moonwalk-controller",
		"clients": s.clients.Load(),
		"samples": s.samples.Load(),
		"jumps":   s.jumps.Load(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	s.clients.Add(1)
	s.logger.Info("controller connected", "remote", c.Request.RemoteAddr)

	done := make(chan struct{})
	go s.pingLoop(conn, done)
	s.readLoop(conn)

	close(done)
	conn.Close()
	s.clients.Add(-1)
	s.logger.Info("controller disconnected", "remote", c.Request.RemoteAddr)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("controller read failed", "err", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("malformed controller frame", "err", err)
			continue
		}
		s.dispatch(msg)
	}
}

// dispatch applies one frame. It reports whether the frame was accepted.
func (s *Server) dispatch(msg Message) bool {
	switch msg.Type {
	case MsgTilt:
		if math.IsNaN(msg.Value) || math.IsInf(msg.Value, 0) {
			return false
		}
		v := math.Max(-maxTiltSample, math.Min(maxTiltSample, msg.Value))
		s.tilt.Sample(v)
		s.samples.Add(1)
		return true
	case MsgJump:
		s.jumps.Add(1)
		s.onJump()
		return true
	default:
		s.logger.Debug("unknown controller frame", "type", msg.Type)
		return false
	}
}

func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
