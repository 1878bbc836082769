package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/academy-backend/internal/http/response"
	"github.com/yungbote/academy-backend/internal/modules/quiz"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type QuizService interface {
	ListCourseQuizzes(ctx context.Context, userID, courseID uuid.UUID) ([]quiz.QuizSummary, error)
	GetQuizOverview(ctx context.Context, userID, quizID uuid.UUID) (*quiz.QuizOverview, error)
	StartAttempt(ctx context.Context, userID, quizID uuid.UUID) (*quiz.StartAttemptOutput, error)
	SubmitAttempt(ctx context.Context, in quiz.SubmitAttemptInput) (*quiz.SubmitAttemptOutput, error)
	GetResults(ctx context.Context, userID, attemptID uuid.UUID) (*quiz.ResultsOutput, error)
	GetReview(ctx context.Context, userID, attemptID uuid.UUID) (*quiz.ReviewOutput, error)
}

type QuizHandler struct {
	log  *logger.Logger
	quiz QuizService
}

func NewQuizHandler(log *logger.Logger, svc QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quiz: svc}
}

// GET /courses/:id/quizzes
func (h *QuizHandler) ListCourseQuizzes(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.quiz.ListCourseQuizzes(c.Request.Context(), userID, courseID)
	if err != nil {
		fail(h.log, c, err, "list_quizzes_failed")
		return
	}
	response.RespondOK(c, gin.H{"quizzes": out})
}

// GET /quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.quiz.GetQuizOverview(c.Request.Context(), userID, quizID)
	if err != nil {
		fail(h.log, c, err, "load_quiz_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /quizzes/:id/attempts
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.quiz.StartAttempt(c.Request.Context(), userID, quizID)
	if err != nil {
		fail(h.log, c, err, "start_attempt_failed")
		return
	}
	response.RespondCreated(c, out)
}

type submitRequest struct {
	Answers map[uuid.UUID]quiz.Submission `json:"answers"`
}

// POST /attempts/:id/submit
// body: { "answers": { "<question-id>": { "answer_id": "<uuid>" } | { "text": "..." } } }
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	attemptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.quiz.SubmitAttempt(c.Request.Context(), quiz.SubmitAttemptInput{
		UserID:    userID,
		AttemptID: attemptID,
		Answers:   req.Answers,
	})
	if err != nil {
		fail(h.log, c, err, "submit_attempt_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /attempts/:id/results
func (h *QuizHandler) GetResults(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	attemptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.quiz.GetResults(c.Request.Context(), userID, attemptID)
	if err != nil {
		fail(h.log, c, err, "load_results_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /attempts/:id/review
func (h *QuizHandler) GetReview(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	attemptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.quiz.GetReview(c.Request.Context(), userID, attemptID)
	if err != nil {
		fail(h.log, c, err, "load_review_failed")
		return
	}
	response.RespondOK(c, out)
}
