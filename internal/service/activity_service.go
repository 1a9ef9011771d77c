package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mergington-activities-api/internal/models"
	"github.com/noah-isme/mergington-activities-api/internal/repository"
	appErrors "github.com/noah-isme/mergington-activities-api/pkg/errors"
	"github.com/noah-isme/mergington-activities-api/pkg/export"
)

// ActivityRepository is implemented by the memory and postgres registries.
type ActivityRepository interface {
	List(ctx context.Context) (models.Activities, error)
	Get(ctx context.Context, name string) (*models.Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
}

// RosterFile is a rendered roster ready for download.
type RosterFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ActivityService manages the activity catalogue and its rosters.
type ActivityService struct {
	repo      ActivityRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	renderers map[export.Format]export.Renderer
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo ActivityRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ActivityService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
	}
}

// List returns the full registry.
func (s *ActivityService) List(ctx context.Context) (models.Activities, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, nil
}

// Signup adds a student to an activity on behalf of actor. Capacity is not
// checked.
func (s *ActivityService) Signup(ctx context.Context, activity, email, actor string) (string, error) {
	req, err := s.rosterRequest(ctx, activity, email)
	if err != nil {
		return "", err
	}

	if err := s.repo.AddParticipant(ctx, req.Activity, req.Email); err != nil {
		return "", mapRosterError(err, "failed to sign up student")
	}

	s.metrics.RecordRosterChange(req.Activity, "signup")
	s.logger.Info("student signed up",
		zap.String("activity", req.Activity),
		zap.String("email", req.Email),
		zap.String("teacher", actor),
	)
	return fmt.Sprintf("Signed up %s for %s", req.Email, req.Activity), nil
}

// Unregister removes a student from an activity on behalf of actor.
func (s *ActivityService) Unregister(ctx context.Context, activity, email, actor string) (string, error) {
	req, err := s.rosterRequest(ctx, activity, email)
	if err != nil {
		return "", err
	}

	if err := s.repo.RemoveParticipant(ctx, req.Activity, req.Email); err != nil {
		return "", mapRosterError(err, "failed to unregister student")
	}

	s.metrics.RecordRosterChange(req.Activity, "unregister")
	s.logger.Info("student unregistered",
		zap.String("activity", req.Activity),
		zap.String("email", req.Email),
		zap.String("teacher", actor),
	)
	return fmt.Sprintf("Unregistered %s from %s", req.Email, req.Activity), nil
}

// ExportRoster renders one activity's roster as csv (default) or pdf.
func (s *ActivityService) ExportRoster(ctx context.Context, name, format string) (*RosterFile, error) {
	f := export.Format(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = export.FormatCSV
	}
	renderer, ok := s.renderers[f]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	activity, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, mapRosterError(err, "failed to load activity")
	}

	data, err := renderer.Render(rosterDataset(name, activity))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	return &RosterFile{
		Filename:    rosterFilename(name, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// rosterRequest keeps the email exactly as given. An empty email is
// rejected, but an unknown activity is reported first.
func (s *ActivityService) rosterRequest(ctx context.Context, activity, email string) (models.RosterRequest, error) {
	req := models.RosterRequest{Activity: activity, Email: email}
	if err := s.validator.Struct(req); err != nil {
		if _, getErr := s.repo.Get(ctx, activity); getErr != nil {
			return req, mapRosterError(getErr, "failed to load activity")
		}
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email is required")
	}
	return req, nil
}

func mapRosterError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return appErrors.ErrActivityNotFound
	case errors.Is(err, repository.ErrParticipantExists):
		return appErrors.ErrAlreadySignedUp
	case errors.Is(err, repository.ErrParticipantMissing):
		return appErrors.ErrNotSignedUp
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}

func rosterDataset(name string, activity *models.Activity) export.Dataset {
	rows := make([]map[string]string, 0, len(activity.Participants))
	for i, email := range activity.Participants {
		rows = append(rows, map[string]string{"#": strconv.Itoa(i + 1), "Email": email})
	}
	return export.Dataset{
		Title: name,
		Notes: []string{
			activity.Description,
			"Schedule: " + activity.Schedule,
			fmt.Sprintf("Enrolled: %d / %d", len(activity.Participants), activity.MaxParticipants),
		},
		Headers: []string{"#", "Email"},
		Rows:    rows,
	}
}

func rosterFilename(name string, f export.Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "activity"
	}
	return slug + "-roster." + string(f)
}
