package certificates

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
)

// grade is the best completed percentage across the course's final quizzes, nil when none was taken.
func (u Usecases) grade(ctx context.Context, userID, courseID uuid.UUID) (*decimal.Decimal, error) {
	if u.deps.Quizzes == nil || u.deps.Attempts == nil {
		return nil, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := u.deps.Quizzes.ListIDsByCourseAndType(dbc, courseID, types.QuizTypeCourse)
	if err != nil {
		return nil, err
	}
	return u.deps.Attempts.BestPercentage(dbc, userID, ids)
}
