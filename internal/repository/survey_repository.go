package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// SurveyRepository encapsulates survey persistence.
type SurveyRepository interface {
	CreateSurvey(ctx context.Context, survey *domain.Survey) error
	GetSurvey(ctx context.Context, id string) (*domain.Survey, error)
	ListOpen(ctx context.Context, now time.Time) ([]domain.Survey, error)
	CreateResponse(ctx context.Context, response *domain.SurveyResponse) error
	GetResponse(ctx context.Context, surveyID, userID string) (*domain.SurveyResponse, error)
	CountResponsesByUser(ctx context.Context, userID string) (int, error)
	ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error)
	WithTx(tx DB) SurveyRepository
}

type surveyRepository struct {
	db DB
}

// NewSurveyRepository instantiates repository.
func NewSurveyRepository(db DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) WithTx(tx DB) SurveyRepository {
	return &surveyRepository{db: tx}
}

func (r *surveyRepository) CreateSurvey(ctx context.Context, survey *domain.Survey) error {
	questions, err := json.Marshal(survey.Questions)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO surveys (title, questions, opens_at, closes_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		survey.Title,
		questions,
		survey.OpensAt,
		survey.ClosesAt,
	).Scan(&survey.ID, &survey.CreatedAt)
}

func (r *surveyRepository) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	var survey domain.Survey
	var questions []byte
	if err := r.db.QueryRow(ctx,
		`SELECT id, title, questions, opens_at, closes_at, created_at FROM surveys WHERE id=$1`, id).Scan(
		&survey.ID, &survey.Title, &questions, &survey.OpensAt, &survey.ClosesAt, &survey.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &survey.Questions); err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) ListOpen(ctx context.Context, now time.Time) ([]domain.Survey, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, title, questions, opens_at, closes_at, created_at FROM surveys
        WHERE opens_at <= $1 AND (closes_at IS NULL OR closes_at > $1)
        ORDER BY opens_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Survey
	for rows.Next() {
		var survey domain.Survey
		var questions []byte
		if err := rows.Scan(&survey.ID, &survey.Title, &questions, &survey.OpensAt, &survey.ClosesAt, &survey.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &survey.Questions); err != nil {
			return nil, err
		}
		result = append(result, survey)
	}
	return result, rows.Err()
}

func (r *surveyRepository) CreateResponse(ctx context.Context, response *domain.SurveyResponse) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO survey_responses (survey_id, user_id, answers)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		response.SurveyID,
		response.UserID,
		answers,
	).Scan(&response.ID, &response.CreatedAt)
}

func (r *surveyRepository) GetResponse(ctx context.Context, surveyID, userID string) (*domain.SurveyResponse, error) {
	var response domain.SurveyResponse
	var answers []byte
	if err := r.db.QueryRow(ctx, `
        SELECT id, survey_id, user_id, answers, created_at FROM survey_responses
        WHERE survey_id=$1 AND user_id=$2`, surveyID, userID).Scan(
		&response.ID, &response.SurveyID, &response.UserID, &answers, &response.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &response.Answers); err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *surveyRepository) CountResponsesByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_responses WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

// ReassignUser moves responses to the primary account, dropping ones
// for surveys the primary already answered.
func (r *surveyRepository) ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `
        UPDATE survey_responses SET user_id=$2
        WHERE user_id=$1 AND NOT EXISTS (
            SELECT 1 FROM survey_responses other
            WHERE other.user_id=$2 AND other.survey_id = survey_responses.survey_id
        )`, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM survey_responses WHERE user_id=$1`, fromUserID); err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}
