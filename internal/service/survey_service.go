package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// SurveyService coordinates survey authoring and responses.
type SurveyService struct {
	surveys repository.SurveyRepository
	now     func() time.Time
}

// NewSurveyService constructs the service.
func NewSurveyService(surveys repository.SurveyRepository) *SurveyService {
	return &SurveyService{surveys: surveys, now: time.Now}
}

// CreateSurvey stores an admin-authored questionnaire.
func (s *SurveyService) CreateSurvey(ctx context.Context, admin *domain.User, survey *domain.Survey) (*domain.Survey, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if strings.TrimSpace(survey.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if len(survey.Questions) == 0 {
		return nil, apperrors.NewValidationError("at least one question required", nil)
	}
	for _, q := range survey.Questions {
		if strings.TrimSpace(q.Key) == "" || strings.TrimSpace(q.Prompt) == "" {
			return nil, apperrors.NewValidationError("question key and prompt required", nil)
		}
	}
	if survey.OpensAt.IsZero() {
		survey.OpensAt = s.now()
	}
	if err := s.surveys.CreateSurvey(ctx, survey); err != nil {
		return nil, apperrors.MapError(err)
	}
	return survey, nil
}

// ListOpen returns surveys currently accepting responses.
func (s *SurveyService) ListOpen(ctx context.Context) ([]domain.Survey, error) {
	surveys, err := s.surveys.ListOpen(ctx, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return surveys, nil
}

// SubmitResponse records one volunteer's answers. Answer keys must
// exist in the survey; one response per survey per volunteer.
func (s *SurveyService) SubmitResponse(ctx context.Context, user *domain.User, surveyID string, answers map[string]string) (*domain.SurveyResponse, error) {
	survey, err := s.surveys.GetSurvey(ctx, surveyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("survey", map[string]any{"survey_id": surveyID})
		}
		return nil, apperrors.MapError(err)
	}
	now := s.now()
	if survey.OpensAt.After(now) || (survey.ClosesAt != nil && !survey.ClosesAt.After(now)) {
		return nil, apperrors.NewConflict("survey is not open", nil)
	}

	known := make(map[string]struct{}, len(survey.Questions))
	for _, q := range survey.Questions {
		known[q.Key] = struct{}{}
	}
	for key := range answers {
		if _, ok := known[key]; !ok {
			return nil, apperrors.NewValidationError("unknown question key", map[string]any{"key": key})
		}
	}

	if _, err := s.surveys.GetResponse(ctx, surveyID, user.ID); err == nil {
		return nil, apperrors.NewConflict("already responded to this survey", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	response := &domain.SurveyResponse{
		SurveyID: surveyID,
		UserID:   user.ID,
		Answers:  answers,
	}
	if err := s.surveys.CreateResponse(ctx, response); err != nil {
		return nil, apperrors.MapError(err)
	}
	return response, nil
}
