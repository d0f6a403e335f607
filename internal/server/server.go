// Package server is the HTTP side of the portfolio: the page itself, the
// streamed particle background, the simulated contact form and the admin
// statistics.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chetan079bca005-code/ck-protocol/internal/config"
	"github.com/chetan079bca005-code/ck-protocol/internal/content"
	"github.com/chetan079bca005-code/ck-protocol/internal/observability"
	"github.com/chetan079bca005-code/ck-protocol/internal/store"
	"github.com/chetan079bca005-code/ck-protocol/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// VisitStore is the part of the visitor store the server needs.
type VisitStore interface {
	Record(ctx context.Context, v store.Visit) error
	Stats(ctx context.Context, now time.Time, recent int) (*store.Stats, error)
	Cleanup(ctx context.Context, cutoff time.Time) (int64, error)
}

type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	visits  VisitStore
	profile content.Profile

	engine  *gin.Engine
	streams *streamRegistry
	contact *limiterSet

	// tracking counts in-flight visit writes; Run drains it on shutdown.
	tracking sync.WaitGroup

	adminToken string
	salt       string
}

// New builds the server. visits may be nil, which disables tracking and the
// admin statistics.
func New(cfg *config.Config, logger *zap.Logger, visits VisitStore) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	s := &Server{
		cfg:        cfg,
		logger:     logger.Named("server"),
		visits:     visits,
		profile:    content.Default(),
		streams:    newStreamRegistry(cfg.Field.MaxStreams),
		contact:    newLimiterSet(rate.Limit(cfg.Contact.Rate), cfg.Contact.Burst),
		adminToken: cfg.Admin.Token,
		salt:       randomToken(),
	}
	if s.adminToken == "" {
		s.adminToken = randomToken()
		if gin.Mode() == gin.DebugMode {
			s.logger.Info("Generated admin token (dev only)", zap.String("token", s.adminToken))
		}
	}

	engine, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() (*gin.Engine, error) {
	r := gin.New()
	// Client addresses key the rate limits and visitor hashes, so only
	// configured proxies may override them.
	if err := r.SetTrustedProxies(s.cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(observability.GinLogger(s.logger), observability.GinRecovery(s.logger))
	if s.visits != nil {
		r.Use(s.visitorTracking())
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"add":  func(a, b int) int { return a + b },
		"join": strings.Join,
		"href": contactHref,
	}).ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.handleIndex)
	r.GET("/privacy", s.handlePrivacy)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/contact", s.handleContact)

	api := r.Group("/api")
	api.GET("/profile", s.handleProfile)
	api.GET("/field/stream", s.handleFieldStream)
	api.POST("/field/:id/pointer", s.handleFieldPointer)

	s.setupAdminRoutes(r)
	return r, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully. Request
// contexts derive from ctx so open field streams end with it. Pending visit
// writes finish before Run returns, so the store can be closed afterwards.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Handlers are done, so no more visit writes can start.
		s.tracking.Wait()
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	})
	return g.Wait()
}

var contactSchemes = []string{"https:", "mailto:", "tel:"}

// contactHref lets the contact channel schemes through html/template, which
// would otherwise filter tel: links.
func contactHref(raw string) template.URL {
	for _, scheme := range contactSchemes {
		if strings.HasPrefix(raw, scheme) {
			return template.URL(raw)
		}
	}
	return "#"
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
