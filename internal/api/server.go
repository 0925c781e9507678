// Package api exposes the HTTP surface of the training platform.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"traindesk/internal/archive"
	"traindesk/internal/auth"
	"traindesk/internal/config"
	"traindesk/internal/media"
	"traindesk/internal/preview"
	"traindesk/internal/repository"
)

// Server wires every handler to its dependencies.
type Server struct {
	cfg       *config.Config
	users     *repository.UserRepository
	courses   *repository.CourseRepository
	tasks     *repository.TaskRepository
	documents *repository.DocumentRepository
	approvals *repository.ApprovalRepository
	assets    *repository.MediaRepository
	stats     *repository.StatsRepository
	gateway   *media.Gateway
	resolver  *preview.Resolver
	store     *archive.Storage
	tokens    *auth.TokenManager
	queue     *asynq.Client
	log       *zap.Logger
	server    *http.Server
}

// Deps collects everything the Server needs.
type Deps struct {
	Config    *config.Config
	Users     *repository.UserRepository
	Courses   *repository.CourseRepository
	Tasks     *repository.TaskRepository
	Documents *repository.DocumentRepository
	Approvals *repository.ApprovalRepository
	Assets    *repository.MediaRepository
	Stats     *repository.StatsRepository
	Gateway   *media.Gateway
	Resolver  *preview.Resolver
	Store     *archive.Storage
	Tokens    *auth.TokenManager
	Queue     *asynq.Client
	Log       *zap.Logger
}

// New constructs a Server.
func New(d Deps) *Server {
	return &Server{
		cfg:       d.Config,
		users:     d.Users,
		courses:   d.Courses,
		tasks:     d.Tasks,
		documents: d.Documents,
		approvals: d.Approvals,
		assets:    d.Assets,
		stats:     d.Stats,
		gateway:   d.Gateway,
		resolver:  d.Resolver,
		store:     d.Store,
		tokens:    d.Tokens,
		queue:     d.Queue,
		log:       d.Log,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/positions", s.handleListPositions)

		r.Get("/api/courses", s.handleListCourses)
		r.Get("/api/courses/{id}", s.handleGetCourse)
		r.Get("/api/courses/{id}/questions", s.handleCourseQuestions)
		r.Post("/api/courses/{id}/attempts", s.handleSubmitAttempt)

		r.Get("/api/tasks", s.handleListTasks)
		r.Get("/api/tasks/{id}", s.handleGetTask)
		r.Put("/api/tasks/{id}/status", s.handleSetTaskStatus)
		r.Post("/api/tasks/{id}/evidence", s.handleUploadEvidence)
		r.Delete("/api/tasks/{id}/evidence/{evidenceID}", s.handleDeleteEvidence)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{id}", s.handleGetDocument)
		r.Get("/api/documents/{id}/text", s.handleDocumentText)
		r.Get("/api/documents/{id}/archive-url", s.handleDocumentArchiveURL)

		r.Post("/api/approvals", s.handleCreateApproval)
		r.Get("/api/my-approvals", s.handleMyApprovals)
		r.Delete("/api/approvals/{id}", s.handleDeleteApproval)

		r.Post("/api/media", s.handleUploadMedia)
		r.Get("/api/media/preview", s.handlePreview)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/api/users", s.handleListUsers)
			r.Post("/api/users", s.handleCreateUser)

			r.Post("/api/courses", s.handleCreateCourse)
			r.Put("/api/courses/{id}", s.handleUpdateCourse)
			r.Delete("/api/courses/{id}", s.handleDeleteCourse)
			r.Get("/api/progress/all", s.handleProgressAll)

			r.Post("/api/tasks", s.handleCreateTask)
			r.Put("/api/tasks/{id}", s.handleUpdateTask)
			r.Delete("/api/tasks/{id}", s.handleDeleteTask)

			r.Post("/api/documents", s.handleUploadDocument)
			r.Delete("/api/documents/{id}", s.handleDeleteDocument)

			r.Get("/api/approvals", s.handleListApprovals)
			r.Post("/api/approvals/{id}/approve", s.handleApprove)
			r.Post("/api/approvals/{id}/reject", s.handleReject)

			r.Get("/api/stats/general", s.handleStats)

			r.Delete("/api/media", s.handleDeleteMedia)
		})
	})
	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Router(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.log.Info("api listening", zap.String("address", s.cfg.Address))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
