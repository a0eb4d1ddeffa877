package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// SurveysHandler serves questionnaire endpoints.
type SurveysHandler struct {
	surveys *service.SurveyService
}

// NewSurveysHandler constructs handler.
func NewSurveysHandler(surveyService *service.SurveyService) *SurveysHandler {
	return &SurveysHandler{surveys: surveyService}
}

// Create POST /api/admin/surveys.
func (h *SurveysHandler) Create(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateSurveyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	survey, err := h.surveys.CreateSurvey(c.Context(), admin, &domain.Survey{
		Title:     req.Title,
		Questions: req.Questions,
		OpensAt:   req.OpensAt,
		ClosesAt:  req.ClosesAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": surveyView(survey)})
}

// ListOpen GET /api/surveys.
func (h *SurveysHandler) ListOpen(c *fiber.Ctx) error {
	surveys, err := h.surveys.ListOpen(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SurveyView, 0, len(surveys))
	for i := range surveys {
		items = append(items, surveyView(&surveys[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Submit POST /api/surveys/:id/responses.
func (h *SurveysHandler) Submit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SurveyResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	response, err := h.surveys.SubmitResponse(c.Context(), user, c.Params("id"), req.Answers)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SurveySubmissionView{
		ID:        response.ID,
		SurveyID:  response.SurveyID,
		CreatedAt: response.CreatedAt,
	}})
}

func surveyView(survey *domain.Survey) dto.SurveyView {
	return dto.SurveyView{
		ID:        survey.ID,
		Title:     survey.Title,
		Questions: survey.Questions,
		OpensAt:   survey.OpensAt,
		ClosesAt:  survey.ClosesAt,
	}
}
