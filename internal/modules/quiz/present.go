package quiz

import (
	"encoding/json"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/academy-backend/internal/domain"
)

type PresentedOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// PresentedQuestion is what a taker sees: no correctness data.
type PresentedQuestion struct {
	ID           uuid.UUID          `json:"id"`
	QuestionType types.QuestionType `json:"question_type"`
	Text         string             `json:"question_text"`
	Points       int                `json:"points"`
	Options      []PresentedOption  `json:"options"`
}

// Shuffler permutes n elements through swap; math/rand.Shuffle matches.
type Shuffler func(n int, swap func(i, j int))

// questionOrder returns the stored order, or a permutation of it when the quiz randomizes.
// The quiz's questions are never reordered.
func questionOrder(q *types.Quiz, shuffle Shuffler) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(q.Questions))
	for i := range q.Questions {
		ids = append(ids, q.Questions[i].ID)
	}
	if q.RandomizeQuestions && len(ids) > 1 {
		if shuffle == nil {
			shuffle = rand.Shuffle
		}
		shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	return ids
}

func encodeOrder(ids []uuid.UUID) datatypes.JSON {
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// orderedQuestions lays the quiz's questions out in the attempt's saved order.
// Questions missing from the saved order (added after the attempt started) follow in stored order.
func orderedQuestions(q *types.Quiz, saved datatypes.JSON) []*types.Question {
	byID := make(map[uuid.UUID]*types.Question, len(q.Questions))
	for i := range q.Questions {
		byID[q.Questions[i].ID] = &q.Questions[i]
	}

	out := make([]*types.Question, 0, len(q.Questions))
	seen := make(map[uuid.UUID]bool, len(q.Questions))
	var ids []uuid.UUID
	if len(saved) > 0 {
		_ = json.Unmarshal(saved, &ids)
	}
	for _, id := range ids {
		if qq, ok := byID[id]; ok && !seen[id] {
			out = append(out, qq)
			seen[id] = true
		}
	}
	for i := range q.Questions {
		if !seen[q.Questions[i].ID] {
			out = append(out, &q.Questions[i])
		}
	}
	return out
}

func presentQuestion(q *types.Question) PresentedQuestion {
	pq := PresentedQuestion{
		ID:           q.ID,
		QuestionType: q.QuestionType,
		Text:         q.Text,
		Points:       q.Points,
		Options:      []PresentedOption{},
	}
	if q.QuestionType.IsChoice() {
		for i := range q.Answers {
			pq.Options = append(pq.Options, PresentedOption{ID: q.Answers[i].ID, Text: q.Answers[i].Text})
		}
	}
	return pq
}
