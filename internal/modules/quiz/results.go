package quiz

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

// QuizConfig is the taker-facing view of a quiz's settings.
type QuizConfig struct {
	ID                 uuid.UUID      `json:"id"`
	CourseID           uuid.UUID      `json:"course_id"`
	LessonID           *uuid.UUID     `json:"lesson_id,omitempty"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	QuizType           types.QuizType `json:"quiz_type"`
	PassPercentage     int            `json:"pass_percentage"`
	TimeLimitMinutes   *int           `json:"time_limit_minutes,omitempty"`
	MaxAttempts        int            `json:"max_attempts"`
	ShowAnswers        bool           `json:"show_answers"`
	RandomizeQuestions bool           `json:"randomize_questions"`
	QuestionCount      int            `json:"question_count"`
	TotalPoints        int            `json:"total_points"`
}

func configOf(q *types.Quiz) QuizConfig {
	return QuizConfig{
		ID:                 q.ID,
		CourseID:           q.CourseID,
		LessonID:           q.LessonID,
		Title:              q.Title,
		Description:        q.Description,
		QuizType:           q.QuizType,
		PassPercentage:     q.PassPercentage,
		TimeLimitMinutes:   q.TimeLimitMinutes,
		MaxAttempts:        q.MaxAttempts,
		ShowAnswers:        q.ShowAnswers,
		RandomizeQuestions: q.RandomizeQuestions,
		QuestionCount:      len(q.Questions),
		TotalPoints:        q.TotalPoints(),
	}
}

type ResultsOutput struct {
	AttemptID     uuid.UUID       `json:"attempt_id"`
	AttemptNumber int             `json:"attempt_number"`
	Quiz          QuizConfig      `json:"quiz"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	Score         decimal.Decimal `json:"score"`
	Percentage    decimal.Decimal `json:"percentage"`
	Passed        bool            `json:"passed"`
	CorrectCount  int             `json:"correct_count"`
	AnsweredCount int             `json:"answered_count"`
}

type ReviewOption struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}

type ReviewResponse struct {
	SelectedAnswerID *uuid.UUID      `json:"selected_answer_id,omitempty"`
	TextAnswer       string          `json:"text_answer,omitempty"`
	IsCorrect        bool            `json:"is_correct"`
	PointsEarned     decimal.Decimal `json:"points_earned"`
}

type ReviewQuestion struct {
	ID           uuid.UUID          `json:"id"`
	QuestionType types.QuestionType `json:"question_type"`
	Text         string             `json:"question_text"`
	Points       int                `json:"points"`
	Explanation  string             `json:"explanation,omitempty"`
	Options      []ReviewOption     `json:"options"`
	Response     *ReviewResponse    `json:"response,omitempty"`
}

type ReviewOutput struct {
	Results       ResultsOutput    `json:"results"`
	AnswersHidden bool             `json:"answers_hidden"`
	Questions     []ReviewQuestion `json:"questions,omitempty"`
}

// GetResults reports the score of a completed attempt owned by userID.
func (u Usecases) GetResults(ctx context.Context, userID, attemptID uuid.UUID) (*ResultsOutput, error) {
	ctx, span := tracer.Start(ctx, "quiz.GetResults")
	defer span.End()

	res, _, _, err := u.loadCompleted(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetReview adds per-question detail to the results when the quiz shows answers.
func (u Usecases) GetReview(ctx context.Context, userID, attemptID uuid.UUID) (*ReviewOutput, error) {
	ctx, span := tracer.Start(ctx, "quiz.GetReview")
	defer span.End()

	res, quiz, attempt, err := u.loadCompleted(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if !quiz.ShowAnswers {
		return &ReviewOutput{Results: *res, AnswersHidden: true}, nil
	}

	byQuestion := make(map[uuid.UUID]*types.UserAnswer, len(attempt.UserAnswers))
	for i := range attempt.UserAnswers {
		byQuestion[attempt.UserAnswers[i].QuestionID] = &attempt.UserAnswers[i]
	}

	questions := make([]ReviewQuestion, 0, len(quiz.Questions))
	for _, q := range orderedQuestions(quiz, attempt.QuestionOrder) {
		rq := ReviewQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Text:         q.Text,
			Points:       q.Points,
			Explanation:  q.Explanation,
			Options:      make([]ReviewOption, 0, len(q.Answers)),
		}
		for i := range q.Answers {
			rq.Options = append(rq.Options, ReviewOption{
				ID:        q.Answers[i].ID,
				Text:      q.Answers[i].Text,
				IsCorrect: q.Answers[i].IsCorrect,
			})
		}
		if ua, ok := byQuestion[q.ID]; ok {
			rq.Response = &ReviewResponse{
				SelectedAnswerID: ua.SelectedAnswerID,
				TextAnswer:       ua.TextAnswer,
				IsCorrect:        ua.IsCorrect,
				PointsEarned:     ua.PointsEarned,
			}
		}
		questions = append(questions, rq)
	}
	return &ReviewOutput{Results: *res, Questions: questions}, nil
}

func (u Usecases) loadCompleted(ctx context.Context, userID, attemptID uuid.UUID) (*ResultsOutput, *types.Quiz, *types.QuizAttempt, error) {
	owned, err := u.loadOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !owned.IsCompleted {
		return nil, nil, nil, apierr.New(http.StatusConflict, "attempt_not_completed",
			fmt.Errorf("%w: %s", apperrors.ErrAttemptNotCompleted, owned.ID))
	}

	dbc := dbctx.Context{Ctx: ctx}
	attempt, err := u.deps.Attempts.GetWithAnswers(dbc, owned.ID)
	if err != nil || attempt == nil {
		return nil, nil, nil, apierr.Internal("load_attempt_failed", err)
	}
	quiz, err := u.deps.Quizzes.GetWithQuestions(dbc, attempt.QuizID)
	if err != nil {
		return nil, nil, nil, apierr.Internal("load_quiz_failed", err)
	}
	if quiz == nil {
		return nil, nil, nil, apierr.New(http.StatusNotFound, "quiz_not_found", apperrors.ErrNotFound)
	}

	res := &ResultsOutput{
		AttemptID:     attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		Quiz:          configOf(quiz),
		StartTime:     attempt.StartTime,
		EndTime:       attempt.EndTime,
		Score:         decimalOrZero(attempt.Score),
		Percentage:    decimalOrZero(attempt.Percentage),
		Passed:        attempt.Passed,
		AnsweredCount: len(attempt.UserAnswers),
	}
	for i := range attempt.UserAnswers {
		if attempt.UserAnswers[i].IsCorrect {
			res.CorrectCount++
		}
	}
	return res, quiz, attempt, nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
