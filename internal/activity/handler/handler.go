package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"mergington/internal/activity/models"
	"mergington/internal/platform/metrics"
	"mergington/internal/platform/middleware"
	"mergington/internal/transport/http/shared"
	dErrors "mergington/pkg/domain-errors"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	List(ctx context.Context) (map[string]*models.Activity, error)
	SignUp(ctx context.Context, activityName, email string) (string, error)
	Unregister(ctx context.Context, activityName, email string) (string, error)
}

// Handler handles activity registry endpoints.
type Handler struct {
	logger   *slog.Logger
	registry Service
	metrics  *metrics.Metrics
}

// New creates a new activity Handler.
func New(registry Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		metrics:  metrics,
	}
}

// Register registers the activity routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	activityRouter := chi.NewRouter()
	activityRouter.Use(middleware.Recovery(h.logger))
	activityRouter.Use(middleware.RequestID)
	activityRouter.Use(middleware.Logger(h.logger))
	activityRouter.Use(middleware.Timeout(30 * time.Second))
	activityRouter.Use(middleware.LatencyMiddleware(h.metrics))
	activityRouter.Get("/activities", h.handleList)
	activityRouter.Post("/activities/{name}/signup", h.handleSignUp)
	activityRouter.Post("/activities/{name}/unregister", h.handleUnregister)

	r.Mount("/", activityRouter)
}

// messageResponse is the success body for roster mutations.
type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activities, err := h.registry.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list activities",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, activities)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	email, err := requireEmail(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid signup request",
			"request_id", middleware.GetRequestID(ctx),
			"activity", name,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	msg, err := h.registry.SignUp(ctx, name, email)
	if err != nil {
		h.writeServiceError(w, r, "signup failed", name, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	email, err := requireEmail(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid unregister request",
			"request_id", middleware.GetRequestID(ctx),
			"activity", name,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	msg, err := h.registry.Unregister(ctx, name, email)
	if err != nil {
		h.writeServiceError(w, r, "unregister failed", name, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// writeServiceError logs unexpected failures and passes domain errors through
// to the shared writer. NotFound and Conflict are expected client outcomes
// and logged at debug level only.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg, activity string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeConflict) {
		h.logger.DebugContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"activity", activity,
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"activity", activity,
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}

func requireEmail(r *http.Request) (string, error) {
	email := r.URL.Query().Get("email")
	if email == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email query parameter is required")
	}
	if !govalidator.IsEmail(email) || !govalidator.StringLength(email, "3", "255") {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	return email, nil
}
