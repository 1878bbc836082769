package quiz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/academy-backend/internal/data/repos"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

type SubmitAttemptInput struct {
	UserID    uuid.UUID
	AttemptID uuid.UUID
	Answers   map[uuid.UUID]Submission
}

type SubmitAttemptOutput struct {
	AttemptID  uuid.UUID       `json:"attempt_id"`
	Score      decimal.Decimal `json:"score"`
	Percentage decimal.Decimal `json:"percentage"`
	Passed     bool            `json:"passed"`
	EndTime    time.Time       `json:"end_time"`
}

var errAttemptClosed = errors.New("attempt closed concurrently")

// SubmitAttempt scores the attempt and completes it. The completion and the answer rows
// commit together; a second submission is rejected and leaves the attempt untouched.
func (u Usecases) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitAttemptOutput, error) {
	ctx, span := tracer.Start(ctx, "quiz.SubmitAttempt")
	defer span.End()
	span.SetAttributes(attribute.String("attempt.id", in.AttemptID.String()))

	out, err := u.submitAttempt(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit attempt failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("attempt.passed", out.Passed))
	return out, nil
}

func (u Usecases) submitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitAttemptOutput, error) {
	attempt, err := u.loadOwnedAttempt(ctx, in.UserID, in.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		return nil, alreadyCompleted(attempt.ID)
	}

	quiz, err := u.deps.Quizzes.GetWithQuestions(dbctx.Context{Ctx: ctx}, attempt.QuizID)
	if err != nil {
		return nil, apierr.Internal("load_quiz_failed", err)
	}
	if quiz == nil {
		return nil, apierr.New(http.StatusNotFound, "quiz_not_found", apperrors.ErrNotFound)
	}

	scored := Score(quiz, attempt.ID, in.Answers)
	end := u.deps.Now().UTC()

	err = u.deps.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := u.deps.Attempts.CompleteIfOpen(dbc, attempt.ID, repos.AttemptResult{
			EndTime:    end,
			Score:      scored.Score,
			Percentage: scored.Percentage,
			Passed:     scored.Passed,
		})
		if err != nil {
			return err
		}
		if !ok {
			return errAttemptClosed
		}
		return u.deps.Attempts.CreateUserAnswers(dbc, scored.Answers)
	})
	if errors.Is(err, errAttemptClosed) {
		return nil, alreadyCompleted(attempt.ID)
	}
	if err != nil {
		return nil, apierr.Internal("submit_attempt_failed", err)
	}

	u.deps.Log.Info("Quiz attempt submitted",
		"attempt_id", attempt.ID.String(),
		"quiz_id", quiz.ID.String(),
		"user_id", in.UserID.String(),
		"percentage", scored.Percentage.String(),
		"passed", scored.Passed,
		"answers", len(scored.Answers),
	)

	status := "failed"
	if scored.Passed {
		status = "passed"
	}
	u.deps.Notify.Emit(ctx, notify.Event{
		UserID:  in.UserID,
		Kind:    types.NotificationQuizResult,
		Title:   fmt.Sprintf("Quiz result: %s", status),
		Message: fmt.Sprintf("You scored %s%% on %q", scored.Percentage.StringFixed(1), quiz.Title),
		Link:    fmt.Sprintf("/quiz/results/%s/", attempt.ID),
		Data: map[string]any{
			"attempt_id": attempt.ID.String(),
			"quiz_id":    quiz.ID.String(),
			"percentage": scored.Percentage.String(),
			"passed":     scored.Passed,
		},
	})

	return &SubmitAttemptOutput{
		AttemptID:  attempt.ID,
		Score:      scored.Score,
		Percentage: scored.Percentage,
		Passed:     scored.Passed,
		EndTime:    end,
	}, nil
}

func alreadyCompleted(attemptID uuid.UUID) error {
	return apierr.New(http.StatusConflict, "attempt_already_completed",
		fmt.Errorf("%w: %s", apperrors.ErrAlreadyCompleted, attemptID))
}

// loadOwnedAttempt returns NotFound for unknown ids and NotOwner for other users' attempts.
func (u Usecases) loadOwnedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*types.QuizAttempt, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}
	attempt, err := u.deps.Attempts.GetByID(dbctx.Context{Ctx: ctx}, attemptID)
	if err != nil {
		return nil, apierr.Internal("load_attempt_failed", err)
	}
	if attempt == nil {
		return nil, apierr.New(http.StatusNotFound, "attempt_not_found", apperrors.ErrNotFound)
	}
	if attempt.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "not_owner", apperrors.ErrNotOwner)
	}
	return attempt, nil
}
