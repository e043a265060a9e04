// Package web provides the HTTP server and UI for the Weather BGM Player.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds server configuration and collaborators.
type ServerConfig struct {
	Addr        string
	FrontendURI string
	TemplatesFS fs.FS
	StaticFS    fs.FS
	Logger      *log.Logger

	Auth     TokenResolver
	Music    MusicClient
	Sessions SessionStore
	Store    AssociationStore
	Users    UserStore
	Weather  WeatherService
	Tables   TableLister
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	handlers  *Handlers
	logger    *log.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	handlers := &Handlers{
		auth:        cfg.Auth,
		music:       cfg.Music,
		sessions:    cfg.Sessions,
		store:       cfg.Store,
		users:       cfg.Users,
		weather:     cfg.Weather,
		tables:      cfg.Tables,
		templates:   templates,
		frontendURI: cfg.FrontendURI,
		logger:      logger,
	}

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		handlers:  handlers,
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	h := s.handlers

	// Static files
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Pages
	s.router.Get("/", h.Home)
	s.router.Get("/ping", h.Ping)
	s.router.Get("/db-view", h.DBView)

	// OAuth and session
	s.router.Get("/login", h.Login)
	s.router.Get("/callback", h.Callback)
	s.router.Get("/token", h.Token)
	s.router.Get("/logout", h.LogoutRedirect)
	s.router.Post("/logout", h.LogoutJSON)

	// Authenticated Spotify pass-through
	s.router.Group(func(r chi.Router) {
		r.Use(h.withAccessToken)
		r.Get("/me", h.Me)
		r.Get("/devices", h.Devices)
		r.Put("/transfer", h.Transfer)
		r.Put("/play", h.Play)
		r.Get("/playlists", h.Playlists)
		r.Get("/playlist/{id}/tracks", h.PlaylistTracks)
	})

	// Weather
	s.router.Get("/api/weather", h.CurrentWeather)

	// Weather-playlist associations
	s.router.Post("/api/weather-playlist/add", h.AddWeatherPlaylist)
	s.router.Get("/api/weather-playlist/random", h.RandomWeatherPlaylist)
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
