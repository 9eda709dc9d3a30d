package api

import (
	"net/http"

	"github.com/dgallion1/docnav/internal/catalog"
	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/contentapi"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/dgallion1/docnav/internal/products"
	"github.com/dgallion1/docnav/internal/tutorials"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Reindexer queues and tracks catalog rebuilds.
type Reindexer interface {
	Submit(job *pipeline.Job) error
	GetJob(id string) *pipeline.Job
	QueueDepth() int
}

// StatsSource reports content API client activity.
type StatsSource interface {
	Stats() contentapi.Stats
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Catalog   *catalog.Catalog
	Reindexer Reindexer
	Content   StatsSource
	Rewriter  *tutorials.Rewriter
	Registry  *products.Registry
}

// Server is the HTTP API server for docnav.
type Server struct {
	router    chi.Router
	catalog   *catalog.Catalog
	reindexer Reindexer
	content   StatsSource
	rewriter  *tutorials.Rewriter
	registry  *products.Registry
	log       *zap.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *zap.Logger, cfg config.Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New()
	}
	if deps.Registry == nil {
		deps.Registry = products.NewRegistry(cfg.BetaProducts)
	}
	s := &Server{
		catalog:   deps.Catalog,
		reindexer: deps.Reindexer,
		content:   deps.Content,
		rewriter:  deps.Rewriter,
		registry:  deps.Registry,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Recoverer(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/breadcrumbs/{product}/{section}", s.handleDocsBreadcrumbs)
		r.Get("/breadcrumbs/{product}/{section}/*", s.handleDocsBreadcrumbs)

		r.Group(func(r chi.Router) {
			r.Use(MaxBody(s.cfg.MaxBodyBytes))

			r.Post("/breadcrumbs/resolve", s.handleResolveBreadcrumbs)
			r.Post("/variables/tree", s.handleVariableTree)
			r.Post("/tutorial-links/rewrite", s.handleRewriteLinks)
			r.Post("/tutorials/render", s.handleRenderTutorial)
		})

		r.Get("/validated-designs", s.handleHVDLanding)
		r.Get("/validated-designs/paths", s.handleHVDPaths)
		r.Get("/validated-designs/{guide}", s.handleHVDGuide)
		r.Get("/validated-designs/{guide}/{page}", s.handleHVDGuide)

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.DocnavAPIKey, s.log))

			r.Post("/reindex", s.handleReindex)
			r.Get("/reindex/{jobID}/status", s.handleReindexStatus)
			r.Get("/stats/content", s.handleContentStats)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"catalog": s.catalog.Summary(),
	})
}
