package quiz

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Submission is one submitted response. AnswerID wins over Text when both are set,
// in which case the text is kept next to the selection.
type Submission struct {
	AnswerID *uuid.UUID `json:"answer_id,omitempty"`
	Text     string     `json:"text,omitempty"`
}

type Scored struct {
	Answers     []*types.UserAnswer
	TotalPoints int
	Score       decimal.Decimal
	Percentage  decimal.Decimal
	Passed      bool
}

// Score grades subs against every question of q. It has no side effects.
//
// Unknown or foreign option ids are recorded as text-only responses worth 0.
// Free text is kept for manual grading and is worth 0. Questions with neither
// produce no row. A quiz worth 0 points scores 0% and never passes.
func Score(q *types.Quiz, attemptID uuid.UUID, subs map[uuid.UUID]Submission) Scored {
	out := Scored{TotalPoints: q.TotalPoints()}
	earned := 0

	for i := range q.Questions {
		question := &q.Questions[i]
		sub, ok := subs[question.ID]
		if !ok {
			continue
		}
		row := &types.UserAnswer{
			AttemptID:    attemptID,
			QuestionID:   question.ID,
			TextAnswer:   sub.Text,
			PointsEarned: decimal.Zero,
		}

		switch {
		case sub.AnswerID != nil && *sub.AnswerID != uuid.Nil:
			opt, found := question.FindAnswer(*sub.AnswerID)
			if found {
				id := opt.ID
				row.SelectedAnswerID = &id
				if question.QuestionType.IsChoice() && opt.IsCorrect {
					row.IsCorrect = true
					row.PointsEarned = decimal.NewFromInt(int64(question.Points))
					earned += question.Points
				}
			}
		case strings.TrimSpace(sub.Text) != "":
		default:
			continue
		}
		out.Answers = append(out.Answers, row)
	}

	out.Score = decimal.NewFromInt(int64(earned))
	out.Percentage = Percentage(earned, out.TotalPoints)
	// Pass/fail is decided on the stored two-place percentage, so it always agrees with what is shown.
	out.Passed = out.TotalPoints > 0 && out.Percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(q.PassPercentage)))
	return out
}

// Percentage is 100*earned/total rounded to two places, 0 when total is 0.
func Percentage(earned, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(earned)).Mul(hundred).DivRound(decimal.NewFromInt(int64(total)), 2)
}
