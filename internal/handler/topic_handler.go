package handler

import (
	"quiz-learn/internal/domain"
	"quiz-learn/internal/dto"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/service"
	"quiz-learn/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TopicHandler serves the learner side: topics, tests and results.
type TopicHandler struct {
	contentService service.ContentService
	testService    service.TestService
	validator      *validation.Validator
}

func NewTopicHandler(contentService service.ContentService, testService service.TestService) *TopicHandler {
	return &TopicHandler{
		contentService: contentService,
		testService:    testService,
		validator:      validation.NewValidator(),
	}
}

// ListTopics godoc
// @Summary List topics
// @Description Returns every topic ordered by order_num.
// @Tags topics
// @Produce json
// @Success 200 {array} dto.TopicResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.contentService.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTopicResponses(topics))
}

// GetTopic godoc
// @Summary Get a topic
// @Tags topics
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Success 200 {object} dto.TopicDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topics/{id} [get]
func (h *TopicHandler) GetTopic(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	topic, questions, err := h.contentService.GetTopic(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.TopicDetailResponse{
		TopicResponse: dto.ToTopicResponse(topic),
		QuestionCount: len(questions),
	})
}

// StartTest godoc
// @Summary Start the test of a topic
// @Description Returns the questions without answers. Redirects to the topic when it has no questions.
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Success 200 {object} dto.StartTestResponse
// @Success 303 {string} string "Topic has no questions"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topics/{id}/test [get]
func (h *TopicHandler) StartTest(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	topicID := c.Params("id")

	session, err := h.testService.StartTest(c.UserContext(), identity, topicID)
	if err != nil {
		if domain.IsErrorCode(err, domain.CodeTopicHasNoQuestions) {
			logger.Get().Info("Test requested for topic without questions", zap.String("topicID", topicID))
			return c.Redirect("/api/topics/"+topicID, fiber.StatusSeeOther)
		}
		return err
	}
	return c.JSON(dto.StartTestResponse{
		TopicID:      session.Topic.ID,
		TopicTitle:   session.Topic.Title,
		Questions:    dto.ToTestQuestionResponses(session.Questions),
		SavedAnswers: session.SavedAnswers,
	})
}

// SubmitTest godoc
// @Summary Submit test answers
// @Description Scores the answers against the current questions and records the result.
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Topic ID"
// @Param request body dto.SubmitTestRequest true "Answers by question id"
// @Success 200 {object} dto.SubmitTestResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /topics/{id}/test [post]
func (h *TopicHandler) SubmitTest(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.SubmitTestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.testService.SubmitTest(c.UserContext(), identity, c.Params("id"), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToSubmitTestResponse(sub.Topic, sub.Questions, sub.Result, sub.Outcome))
}

// MyResults godoc
// @Summary My test results
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Max results (1-50)"
// @Success 200 {array} dto.ResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /results/me [get]
func (h *TopicHandler) MyResults(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	limit, errs := h.validator.ParseLimit(c.Query("limit"), service.DefaultResultsLimit)
	if len(errs) > 0 {
		return errs
	}
	results, err := h.testService.MyResults(c.UserContext(), identity, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToResultResponses(results))
}
