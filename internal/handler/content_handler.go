package handler

import (
	"quiz-learn/internal/dto"
	"quiz-learn/internal/service"
	"quiz-learn/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler serves topic and question management for teachers and admins.
// Ownership is enforced by ContentService.
type ContentHandler struct {
	contentService service.ContentService
	batchService   service.BatchService
	statsService   service.StatsService
	validator      *validation.Validator
}

func NewContentHandler(contentService service.ContentService, batchService service.BatchService, statsService service.StatsService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		batchService:   batchService,
		statsService:   statsService,
		validator:      validation.NewValidator(),
	}
}

// TeacherDashboard godoc
// @Summary Teacher dashboard
// @Description Topics and the 10 most recent test results.
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.TeacherDashboardResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /teacher/dashboard [get]
func (h *ContentHandler) TeacherDashboard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	dash, err := h.statsService.TeacherDashboard(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.TeacherDashboardResponse{
		Topics:        dto.ToTopicResponses(dash.Topics),
		RecentResults: dto.ToResultResponses(dash.RecentResults),
	})
}

// ListTopics godoc
// @Summary List topics for management
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.TopicResponse
// @Router /admin/topics [get]
func (h *ContentHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.contentService.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTopicResponses(topics))
}

// CreateTopic godoc
// @Summary Create a topic
// @Tags teacher
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.TopicRequest true "Topic"
// @Success 201 {object} dto.TopicResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /teacher/topics [post]
func (h *ContentHandler) CreateTopic(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.TopicRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	topic, err := h.contentService.CreateTopic(c.UserContext(), identity, req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTopicResponse(topic))
}

// UpdateTopic godoc
// @Summary Replace a topic
// @Tags teacher
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Param request body dto.TopicRequest true "Topic"
// @Success 200 {object} dto.TopicResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teacher/topics/{id} [put]
func (h *ContentHandler) UpdateTopic(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.TopicRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	topic, err := h.contentService.UpdateTopic(c.UserContext(), identity, c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTopicResponse(topic))
}

// DeleteTopic godoc
// @Summary Delete a topic and its questions
// @Description Test results of the topic are kept.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/topics/{id} [delete]
func (h *ContentHandler) DeleteTopic(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if _, err := h.contentService.DeleteTopic(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "topic deleted"})
}

// ListQuestions godoc
// @Summary List questions
// @Description Admins see every question, teachers only their own.
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuestionResponse
// @Router /teacher/questions [get]
func (h *ContentHandler) ListQuestions(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	questions, err := h.contentService.ListQuestions(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuestionResponses(questions))
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags teacher
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /teacher/questions [post]
func (h *ContentHandler) CreateQuestion(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := h.contentService.CreateQuestion(c.UserContext(), identity, req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToQuestionResponse(q))
}

// UpdateQuestion godoc
// @Summary Replace a question
// @Tags teacher
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teacher/questions/{id} [put]
func (h *ContentHandler) UpdateQuestion(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := h.contentService.UpdateQuestion(c.UserContext(), identity, c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuestionResponse(q))
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags teacher
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teacher/questions/{id} [delete]
func (h *ContentHandler) DeleteQuestion(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.contentService.DeleteQuestion(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "question deleted"})
}

// ImportQuestions godoc
// @Summary Import questions into a topic
// @Description All or nothing: one invalid question rejects the batch.
// @Tags teacher
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Param request body dto.ImportQuestionsRequest true "Questions"
// @Success 201 {object} domain.ImportReport
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teacher/topics/{id}/questions/import [post]
func (h *ContentHandler) ImportQuestions(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ImportQuestionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateImportRequest(req); len(errs) > 0 {
		return errs
	}
	report, err := h.batchService.ImportQuestions(c.UserContext(), identity, c.Params("id"), req.Questions)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
