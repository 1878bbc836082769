package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

// AttemptResult is the scored state written when an attempt completes.
type AttemptResult struct {
	EndTime    time.Time
	Score      decimal.Decimal
	Percentage decimal.Decimal
	Passed     bool
}

type AttemptRepo interface {
	CountByUserQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (int64, error)
	Create(dbc dbctx.Context, a *types.QuizAttempt) (*types.QuizAttempt, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error)
	// GetWithAnswers preloads the attempt's user answers.
	GetWithAnswers(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error)
	// ListByUserQuiz returns attempts newest first.
	ListByUserQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	ListByUserQuizzes(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) ([]*types.QuizAttempt, error)
	// CompleteIfOpen writes the result only while the attempt is still open and
	// reports whether this call completed it.
	CompleteIfOpen(dbc dbctx.Context, id uuid.UUID, res AttemptResult) (bool, error)
	CreateUserAnswers(dbc dbctx.Context, answers []*types.UserAnswer) error
	ListUserAnswers(dbc dbctx.Context, attemptID uuid.UUID) ([]*types.UserAnswer, error)
	// BestPercentage is the highest completed percentage among the given quizzes, or nil.
	BestPercentage(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) (*decimal.Decimal, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) CountByUserQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *attemptRepo) Create(dbc dbctx.Context, a *types.QuizAttempt) (*types.QuizAttempt, error) {
	if err := dbc.Conn(r.db).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID returns nil, nil when the attempt does not exist.
func (r *attemptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error) {
	var a types.QuizAttempt
	err := dbc.Conn(r.db).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepo) GetWithAnswers(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error) {
	var a types.QuizAttempt
	err := dbc.Conn(r.db).Preload("UserAnswers").Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attemptRepo) ListByUserQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) ListByUserQuizzes(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if len(quizIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Order("attempt_number DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) CompleteIfOpen(dbc dbctx.Context, id uuid.UUID, res AttemptResult) (bool, error) {
	out := dbc.Conn(r.db).
		Model(&types.QuizAttempt{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"end_time":     res.EndTime.UTC(),
			"score":        res.Score,
			"percentage":   res.Percentage,
			"passed":       res.Passed,
			"is_completed": true,
		})
	if out.Error != nil {
		return false, out.Error
	}
	return out.RowsAffected == 1, nil
}

func (r *attemptRepo) CreateUserAnswers(dbc dbctx.Context, answers []*types.UserAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&answers).Error
}

func (r *attemptRepo) ListUserAnswers(dbc dbctx.Context, attemptID uuid.UUID) ([]*types.UserAnswer, error) {
	var out []*types.UserAnswer
	if err := dbc.Conn(r.db).Where("attempt_id = ?", attemptID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) BestPercentage(dbc dbctx.Context, userID uuid.UUID, quizIDs []uuid.UUID) (*decimal.Decimal, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	// Compared in Go so numeric storage differences between drivers do not matter.
	var rows []types.QuizAttempt
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND quiz_id IN ? AND is_completed = ?", userID, quizIDs, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	var best *decimal.Decimal
	for i := range rows {
		p := rows[i].Percentage
		if p == nil {
			continue
		}
		if best == nil || p.GreaterThan(*best) {
			v := *p
			best = &v
		}
	}
	return best, nil
}
