package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/api/response"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/hub"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/hub/types"
	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/player"
	"ctchen222/Time-Travel-Tic-Tac-Toe/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	engine   *gin.Engine
	index    []byte
}

// NewServer builds the gin engine serving the page, its assets and the game socket.
func NewServer(h *hub.Hub) (*Server, error) {
	index, err := web.Assets.ReadFile("index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read index page: %w", err)
	}
	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	s := &Server{
		hub:   h,
		index: index,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	engine.GET("/", s.handleIndex)
	engine.StaticFS("/static", http.FS(static))
	engine.GET("/ws", s.handleWebSocket)
	engine.GET("/healthz", s.handleHealth)
	engine.NoRoute(func(c *gin.Context) {
		response.ErrorResponse(c, http.StatusNotFound, "not found")
	})

	s.engine = engine
	return s, nil
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.index)
}

func (s *Server) handleHealth(c *gin.Context) {
	response.SuccessResponse(c, gin.H{
		"status":   "ok",
		"sessions": s.hub.Sessions(),
	})
}

// handleWebSocket upgrades the connection and hands a brand new player to
// the hub. Every connection starts its own game.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	playerID := uuid.New().String()
	span.SetAttributes(attribute.String("player.id", playerID))

	req := &types.RegistrationRequest{
		Player: player.NewPlayer(playerID, conn),
		Ctx:    ctx,
	}
	select {
	case s.hub.Register() <- req:
	case <-s.hub.Done():
		slog.WarnContext(ctx, "Hub is stopped, dropping connection", "player.id", playerID)
		span.SetStatus(codes.Error, "Hub stopped")
		conn.Close()
	}
}

// requestLogger logs every request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.DebugContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
