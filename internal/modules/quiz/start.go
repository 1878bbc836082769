package quiz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/academy-backend/internal/data/db"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

type StartAttemptOutput struct {
	Attempt   *types.QuizAttempt  `json:"attempt"`
	Quiz      QuizConfig          `json:"quiz"`
	Questions []PresentedQuestion `json:"questions"`
	Deadline  *time.Time          `json:"deadline,omitempty"`
}

// StartAttempt opens attempt count+1 for (user, quiz) and returns the questions in display order.
func (u Usecases) StartAttempt(ctx context.Context, userID, quizID uuid.UUID) (*StartAttemptOutput, error) {
	ctx, span := tracer.Start(ctx, "quiz.StartAttempt")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.id", quizID.String()))

	out, err := u.startAttempt(ctx, userID, quizID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start attempt failed")
	}
	return out, err
}

func (u Usecases) startAttempt(ctx context.Context, userID, quizID uuid.UUID) (*StartAttemptOutput, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	}

	quiz, err := u.loadTakeableQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	order := questionOrder(quiz, u.deps.Shuffle)

	var attempt *types.QuizAttempt
	for try := 0; ; try++ {
		attempt, err = u.createAttempt(ctx, userID, quiz, order)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err) || try+1 >= u.deps.AttemptCreateRetries {
			var ae *apierr.Error
			if errors.As(err, &ae) {
				return nil, ae
			}
			return nil, apierr.Internal("create_attempt_failed", err)
		}
		u.deps.Log.Warn("Attempt number taken by a concurrent start, retrying",
			"quiz_id", quizID.String(),
			"user_id", userID.String(),
			"try", try+1,
		)
	}

	byID := make(map[uuid.UUID]*types.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}
	questions := make([]PresentedQuestion, 0, len(order))
	for _, id := range order {
		questions = append(questions, presentQuestion(byID[id]))
	}

	u.deps.Log.Info("Quiz attempt started",
		"quiz_id", quizID.String(),
		"attempt_id", attempt.ID.String(),
		"attempt_number", attempt.AttemptNumber,
		"user_id", userID.String(),
	)

	return &StartAttemptOutput{
		Attempt:   attempt,
		Quiz:      configOf(quiz),
		Questions: questions,
		Deadline:  quiz.Deadline(attempt.StartTime),
	}, nil
}

// createAttempt counts and inserts in one transaction. The unique
// (user_id, quiz_id, attempt_number) index rejects the loser of a race.
func (u Usecases) createAttempt(ctx context.Context, userID uuid.UUID, quiz *types.Quiz, order []uuid.UUID) (*types.QuizAttempt, error) {
	var created *types.QuizAttempt
	err := u.deps.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		used, err := u.deps.Attempts.CountByUserQuiz(dbc, userID, quiz.ID)
		if err != nil {
			return err
		}
		if int(used) >= quiz.MaxAttempts {
			return apierr.New(http.StatusConflict, "attempt_limit_exceeded",
				fmt.Errorf("%w: %d of %d attempts used", apperrors.ErrAttemptLimitExceeded, used, quiz.MaxAttempts))
		}
		a := &types.QuizAttempt{
			UserID:        userID,
			QuizID:        quiz.ID,
			AttemptNumber: int(used) + 1,
			StartTime:     u.deps.Now().UTC(),
			QuestionOrder: encodeOrder(order),
		}
		if _, err := u.deps.Attempts.Create(dbc, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	return created, err
}

// loadTakeableQuiz loads the quiz tree and checks it is active and the user is enrolled.
func (u Usecases) loadTakeableQuiz(ctx context.Context, userID, quizID uuid.UUID) (*types.Quiz, error) {
	quiz, err := u.loadEnrolledQuiz(ctx, userID, quizID, true)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, apierr.New(http.StatusConflict, "quiz_inactive", apperrors.ErrQuizInactive)
	}
	return quiz, nil
}

func (u Usecases) loadEnrolledQuiz(ctx context.Context, userID, quizID uuid.UUID, withQuestions bool) (*types.Quiz, error) {
	dbc := dbctx.Context{Ctx: ctx}
	var (
		quiz *types.Quiz
		err  error
	)
	if withQuestions {
		quiz, err = u.deps.Quizzes.GetWithQuestions(dbc, quizID)
	} else {
		quiz, err = u.deps.Quizzes.GetByID(dbc, quizID)
	}
	if err != nil {
		return nil, apierr.Internal("load_quiz_failed", err)
	}
	if quiz == nil {
		return nil, apierr.New(http.StatusNotFound, "quiz_not_found", apperrors.ErrNotFound)
	}
	if err := u.requireEnrollment(ctx, userID, quiz.CourseID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (u Usecases) requireEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	if u.deps.Enrollment == nil {
		return nil
	}
	ok, err := u.deps.Enrollment.Exists(ctx, userID, courseID)
	if err != nil {
		return apierr.Internal("load_enrollment_failed", err)
	}
	if !ok {
		return apierr.New(http.StatusForbidden, "not_enrolled", apperrors.ErrNotEnrolled)
	}
	return nil
}
