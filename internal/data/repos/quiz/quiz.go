package quiz

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	"github.com/yungbote/academy-backend/internal/platform/logger"
)

type QuizRepo interface {
	// Create validates and inserts the whole quiz tree (questions and answers).
	Create(dbc dbctx.Context, q *types.Quiz) (*types.Quiz, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	// GetWithQuestions loads questions and their answers, both sorted by order index.
	GetWithQuestions(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	// ListActiveByCourse preloads questions but not their answers.
	ListActiveByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Quiz, error)
	ListIDsByCourseAndType(dbc dbctx.Context, courseID uuid.UUID, quizType types.QuizType) ([]uuid.UUID, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, q *types.Quiz) (*types.Quiz, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return nil, err
		}
		for j := range q.Questions[i].Answers {
			if err := q.Questions[i].Answers[j].Validate(); err != nil {
				return nil, err
			}
		}
	}
	if err := dbc.Conn(r.db).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID returns nil, nil when the quiz does not exist.
func (r *quizRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	var q types.Quiz
	err := dbc.Conn(r.db).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepo) GetWithQuestions(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	var q types.Quiz
	err := dbc.Conn(r.db).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, created_at ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id = ?", id).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepo) ListActiveByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if err := dbc.Conn(r.db).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, created_at ASC")
		}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) ListIDsByCourseAndType(dbc dbctx.Context, courseID uuid.UUID, quizType types.QuizType) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.Conn(r.db).
		Model(&types.Quiz{}).
		Where("course_id = ? AND quiz_type = ?", courseID, quizType).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
