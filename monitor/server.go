package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cbarrick/csb/dqn"
)

// StatsSource is anything that can report trainer progress. dqn.Trainer
// satisfies it.
type StatsSource interface {
	Stats() dqn.Stats
}

// Server exposes a read-only view of a running trainer over HTTP. It has no
// control surface: the training loop cannot be influenced through it.
type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	source StatsSource
}

func NewServer(ctx context.Context, addr string, source StatsSource) *Server {
	s := &Server{
		Addr:   addr,
		ctx:    ctx,
		source: source,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/status", s.handleStatus)
	r.GET("/healthz", handleHealth)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Start serves in the background until the context is cancelled.
func (s *Server) Start() {
	go func() {
		s.server.ListenAndServe()
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.source.Stats())
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
