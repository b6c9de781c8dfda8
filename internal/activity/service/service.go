package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mergington/internal/activity/models"
	"mergington/internal/platform/metrics"
	"mergington/internal/platform/middleware"
	dErrors "mergington/pkg/domain-errors"
	"mergington/pkg/email"
	audit "mergington/pkg/platform/audit"
	"mergington/pkg/platform/sentinel"
)

// RegistryStore is the persistence contract the service depends on. All
// backends return the same sentinel errors, so translation lives here once.
type RegistryStore interface {
	List(ctx context.Context) ([]*models.Activity, error)
	AddParticipant(ctx context.Context, activityName, email string) error
	RemoveParticipant(ctx context.Context, activityName, email string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates registry reads and roster mutations.
type Service struct {
	store          RegistryStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store RegistryStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("mergington/activity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full registry keyed by activity name.
func (s *Service) List(ctx context.Context) (map[string]*models.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "registry.List")
	defer span.End()

	activities, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activities")
	}

	out := make(map[string]*models.Activity, len(activities))
	for _, a := range activities {
		out[a.Name] = a
	}
	return out, nil
}

// SignUp appends a student email to an activity roster and returns the
// confirmation message. Capacity is informational and not enforced.
func (s *Service) SignUp(ctx context.Context, activityName, studentEmail string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.SignUp",
		trace.WithAttributes(attribute.String("activity.name", activityName)))
	defer span.End()

	studentEmail = email.Normalize(studentEmail)

	if err := s.store.AddParticipant(ctx, activityName, studentEmail); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncSignup(metrics.OutcomeNotFound)
			return "", dErrors.New(dErrors.CodeNotFound, "Activity not found")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			s.metrics.IncSignup(metrics.OutcomeConflict)
			return "", dErrors.New(dErrors.CodeConflict, "Student is already signed up for this activity")
		default:
			s.metrics.IncSignup(metrics.OutcomeError)
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign up student")
		}
	}

	s.metrics.IncSignup(metrics.OutcomeOK)
	s.emitAudit(ctx, audit.EventStudentSignedUp, activityName, studentEmail)

	return fmt.Sprintf("Signed up %s for %s", studentEmail, activityName), nil
}

// Unregister removes a student email from an activity roster and returns the
// confirmation message.
func (s *Service) Unregister(ctx context.Context, activityName, studentEmail string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Unregister",
		trace.WithAttributes(attribute.String("activity.name", activityName)))
	defer span.End()

	studentEmail = email.Normalize(studentEmail)

	if err := s.store.RemoveParticipant(ctx, activityName, studentEmail); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncUnregister(metrics.OutcomeNotFound)
			return "", dErrors.New(dErrors.CodeNotFound, "Activity not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			s.metrics.IncUnregister(metrics.OutcomeConflict)
			return "", dErrors.New(dErrors.CodeConflict, "Student is not registered for this activity")
		default:
			s.metrics.IncUnregister(metrics.OutcomeError)
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to unregister student")
		}
	}

	s.metrics.IncUnregister(metrics.OutcomeOK)
	s.emitAudit(ctx, audit.EventStudentUnregistered, activityName, studentEmail)

	return fmt.Sprintf("Unregistered %s from %s", studentEmail, activityName), nil
}

// emitAudit publishes a roster-change event. Audit is best-effort; failures
// are logged and never surfaced to the caller.
func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, activityName, studentEmail string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(action),
		Activity:  activityName,
		Email:     studentEmail,
		RequestID: middleware.GetRequestID(ctx),
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"action", string(action),
			"activity", activityName,
			"student", email.Local(studentEmail),
			"error", err.Error(),
		)
	}
}
