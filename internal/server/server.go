package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/agnel18/DevCollab/internal/service"
	"github.com/agnel18/DevCollab/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type Options struct {
	SQLitePath string
	// ConfigPath is the client config file served by /client-config. Empty disables the lookup.
	ConfigPath string
	Logger     *slog.Logger
}

type Server struct {
	store      *store.SQLiteStore
	service    *service.Service
	hub        *hub
	logger     *slog.Logger
	router     *chi.Mux
	api        huma.API
	configPath string
}

func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.NewSQLiteStore(opts.SQLitePath)
	if err != nil {
		return nil, err
	}

	events := newHub()
	router := chi.NewRouter()
	s := &Server{
		store:      st,
		service:    service.New(st, events, logger),
		hub:        events,
		logger:     logger,
		router:     router,
		configPath: opts.ConfigPath,
	}
	s.routes()
	s.logger.Info("server initialized", "sqlite_path", opts.SQLitePath)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.api.OpenAPI()
}

func (s *Server) Close() error {
	s.hub.Close()
	return s.store.Close()
}

func (s *Server) routes() {
	s.router.Use(s.requestLoggingMiddleware)

	config := huma.DefaultConfig("DevCollab API", "1.0.0")
	config.OpenAPIPath = "/openapi"
	config.DocsPath = ""

	s.api = humachi.New(s.router, config)
	s.registerOperations()
	s.registerWebSocketOperationDocs()

	// Websocket upgrade endpoint remains a native HTTP handler.
	s.router.Get("/ws", s.hub.ServeWS)
}

func (s *Server) registerOperations() {
	huma.Get(s.api, "/health", s.health)
	huma.Get(s.api, "/client-config", s.clientConfig)

	s.registerBoardOperations()
	s.registerColumnOperations()
	s.registerProjectOperations()
	s.registerPomodoroOperations()
	s.registerTaskOperations()
}

func (s *Server) registerWebSocketOperationDocs() {
	oapi := s.api.OpenAPI()
	if oapi.Paths == nil {
		oapi.Paths = map[string]*huma.PathItem{}
	}
	oapi.Paths["/ws"] = &huma.PathItem{
		Get: &huma.Operation{
			OperationID: "websocketEvents",
			Summary:     "Websocket change feed",
			Description: "Subscribe to board, column, project and timer events. Optional board query param filters by board id.",
			Responses: map[string]*huma.Response{
				"101": {Description: "Switching protocols to websocket"},
			},
		},
	}
}

type healthOutput struct {
	Body struct {
		Ok bool `json:"ok"`
	}
}

func (s *Server) health(_ context.Context, _ *struct{}) (*healthOutput, error) {
	out := &healthOutput{}
	out.Body.Ok = true
	return out, nil
}
