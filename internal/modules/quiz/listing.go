package quiz

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

type QuizSummary struct {
	Quiz           QuizConfig       `json:"quiz"`
	AttemptsUsed   int              `json:"attempts_used"`
	AttemptsLeft   int              `json:"attempts_left"`
	BestPercentage *decimal.Decimal `json:"best_percentage,omitempty"`
	Passed         bool             `json:"passed"`
}

type QuizOverview struct {
	Quiz         QuizConfig           `json:"quiz"`
	Attempts     []*types.QuizAttempt `json:"attempts"`
	AttemptsLeft int                  `json:"attempts_left"`
	BestAttempt  *types.QuizAttempt   `json:"best_attempt,omitempty"`
}

// ListCourseQuizzes lists a course's active quizzes with the user's attempt standing on each.
func (u Usecases) ListCourseQuizzes(ctx context.Context, userID, courseID uuid.UUID) ([]QuizSummary, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	if err := u.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	quizzes, err := u.deps.Quizzes.ListActiveByCourse(dbc, courseID)
	if err != nil {
		return nil, apierr.Internal("load_quizzes_failed", err)
	}
	ids := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	attempts, err := u.deps.Attempts.ListByUserQuizzes(dbc, userID, ids)
	if err != nil {
		return nil, apierr.Internal("load_attempts_failed", err)
	}
	byQuiz := make(map[uuid.UUID][]*types.QuizAttempt, len(quizzes))
	for _, a := range attempts {
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}

	out := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		mine := byQuiz[q.ID]
		s := QuizSummary{
			Quiz:         configOf(q),
			AttemptsUsed: len(mine),
			AttemptsLeft: attemptsLeft(q, len(mine)),
		}
		if best := bestAttempt(mine); best != nil {
			p := decimalOrZero(best.Percentage)
			s.BestPercentage = &p
			s.Passed = best.Passed
		}
		out = append(out, s)
	}
	return out, nil
}

// GetQuizOverview returns the quiz settings with the user's attempts, newest first.
func (u Usecases) GetQuizOverview(ctx context.Context, userID, quizID uuid.UUID) (*QuizOverview, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	quiz, err := u.loadEnrolledQuiz(ctx, userID, quizID, true)
	if err != nil {
		return nil, err
	}
	attempts, err := u.deps.Attempts.ListByUserQuiz(dbctx.Context{Ctx: ctx}, userID, quizID)
	if err != nil {
		return nil, apierr.Internal("load_attempts_failed", err)
	}
	return &QuizOverview{
		Quiz:         configOf(quiz),
		Attempts:     attempts,
		AttemptsLeft: attemptsLeft(quiz, len(attempts)),
		BestAttempt:  bestAttempt(attempts),
	}, nil
}

func attemptsLeft(q *types.Quiz, used int) int {
	if left := q.MaxAttempts - used; left > 0 {
		return left
	}
	return 0
}

// bestAttempt is the completed attempt with the highest percentage; earlier attempts win ties.
func bestAttempt(attempts []*types.QuizAttempt) *types.QuizAttempt {
	var best *types.QuizAttempt
	for _, a := range attempts {
		if !a.IsCompleted || a.Percentage == nil {
			continue
		}
		switch {
		case best == nil:
			best = a
		case a.Percentage.GreaterThan(*best.Percentage):
			best = a
		case a.Percentage.Equal(*best.Percentage) && a.AttemptNumber < best.AttemptNumber:
			best = a
		}
	}
	return best
}
