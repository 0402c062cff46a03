// Package server exposes dashboard sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/session"
	"github.com/chrisconley/greencity/specs"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router   *gin.Engine
	sessions *session.Registry
	topology internal.Topology
}

// New builds the router. metrics may be nil, in which case /metrics is not
// mounted.
func New(sessions *session.Registry, topology internal.Topology, metrics http.Handler) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		router:   router,
		sessions: sessions,
		topology: topology,
	}
	s.setupRoutes(metrics)
	return s
}

func (s *Server) setupRoutes(metrics http.Handler) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		s.router.GET("/metrics", gin.WrapH(metrics))
	}

	api := s.router.Group("/api")
	{
		api.GET("/topology", s.getTopology)

		api.POST("/sessions", s.openSession)
		api.DELETE("/sessions/:id", s.closeSession)
		api.POST("/sessions/:id/batteries", s.addBattery)
		api.GET("/sessions/:id/batteries", s.listBatteries)
		api.GET("/sessions/:id/summary", s.getSummary)
		api.GET("/sessions/:id/grid", s.getGrid)
		api.GET("/sessions/:id/zones", s.getZoneGrid)
		api.GET("/sessions/:id/scopes", s.getScopes)
		api.GET("/sessions/:id/series", s.getSeries)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.InfoS("Starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	klog.InfoS("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

type addBatteryRequest struct {
	WardID string `json:"ward_id" binding:"required"`
	Zone   string `json:"zone" binding:"required"`
}

func (s *Server) getTopology(c *gin.Context) {
	c.JSON(http.StatusOK, s.topology.ToSpec())
}

func (s *Server) openSession(c *gin.Context) {
	id, _ := s.sessions.Open()
	klog.V(2).InfoS("Session opened", "session", id)
	c.JSON(http.StatusCreated, gin.H{"session_id": id.String()})
}

func (s *Server) closeSession(c *gin.Context) {
	id, _, err := s.sessions.Lookup(c.Param("id"))
	if err == nil {
		err = s.sessions.Close(id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	klog.V(2).InfoS("Session closed", "session", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) addBattery(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	var req addBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ward_id and zone are required"})
		return
	}

	record, err := d.AddBattery(req.WardID, req.Zone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record.ToSpec())
}

func (s *Server) listBatteries(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	records := d.All()
	out := make([]specs.BatteryRecordSpec, len(records))
	for i, r := range records {
		out[i] = r.ToSpec()
	}
	c.JSON(http.StatusOK, gin.H{"batteries": out})
}

func (s *Server) getSummary(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	scope, err := s.scope(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.Summary(scope).ToSpec())
}

func (s *Server) getGrid(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, internal.GridToSpec(d.Grid()))
}

func (s *Server) getZoneGrid(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, internal.ZoneGridToSpec(d.ZoneGrid()))
}

// getScopes lists the scopes that currently have data, for the level selector.
func (s *Server) getScopes(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"scopes": d.ObservedScopes()})
}

func (s *Server) getSeries(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	scope, err := s.scope(c)
	if err != nil {
		writeError(c, err)
		return
	}
	metric, err := internal.ParseMetric(c.DefaultQuery("metric", internal.MetricResistance.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, internal.SeriesToSpec(scope, metric, d.MetricSeries(scope, metric)))
}

func (s *Server) dashboard(c *gin.Context) (*internal.Dashboard, bool) {
	_, d, err := s.sessions.Lookup(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return d, true
}

// scope reads the scope query parameter; absent means the whole city.
func (s *Server) scope(c *gin.Context) (internal.Scope, error) {
	spec, err := specs.ParseScope(c.Query("scope"))
	if err != nil {
		return internal.Scope{}, fmt.Errorf("%w: %v", internal.ErrUnknownScope, err)
	}
	return internal.NewScope(spec, s.topology)
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		klog.ErrorS(err, "Request failed", "method", c.Request.Method, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrInvalidWard),
		errors.Is(err, internal.ErrUnknownScope),
		errors.Is(err, internal.ErrInvalidMeasurement):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(3).InfoS("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
