package quiz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/academy-backend/internal/domain"
)

func mcq(points int) types.Question {
	return types.Question{
		ID:           uuid.New(),
		QuestionType: types.QuestionMCQ,
		Text:         "q",
		Points:       points,
		Answers: []types.Answer{
			{ID: uuid.New(), Text: "right", IsCorrect: true},
			{ID: uuid.New(), Text: "wrong"},
		},
	}
}

func pick(id uuid.UUID) Submission { return Submission{AnswerID: &id} }

func TestScore_SingleMCQCorrect(t *testing.T) {
	q := &types.Quiz{PassPercentage: 70, Questions: []types.Question{mcq(10)}}
	s := Score(q, uuid.New(), map[uuid.UUID]Submission{
		q.Questions[0].ID: pick(q.Questions[0].Answers[0].ID),
	})
	if !s.Score.Equal(decimal.NewFromInt(10)) || !s.Percentage.Equal(decimal.NewFromInt(100)) || !s.Passed {
		t.Fatalf("expected 10/100/passed, got %s/%s/%v", s.Score, s.Percentage, s.Passed)
	}
	if len(s.Answers) != 1 || !s.Answers[0].IsCorrect || !s.Answers[0].PointsEarned.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected answer rows: %+v", s.Answers)
	}
}

func TestScore_SingleMCQWrong(t *testing.T) {
	q := &types.Quiz{PassPercentage: 70, Questions: []types.Question{mcq(10)}}
	s := Score(q, uuid.New(), map[uuid.UUID]Submission{
		q.Questions[0].ID: pick(q.Questions[0].Answers[1].ID),
	})
	if !s.Score.IsZero() || !s.Percentage.IsZero() || s.Passed {
		t.Fatalf("expected 0/0/failed, got %s/%s/%v", s.Score, s.Percentage, s.Passed)
	}
}

func TestScore_ZeroPointQuizNeverPasses(t *testing.T) {
	q := &types.Quiz{PassPercentage: 0}
	s := Score(q, uuid.New(), nil)
	if !s.Percentage.IsZero() || s.Passed {
		t.Fatalf("expected 0%% and failed, got %s/%v", s.Percentage, s.Passed)
	}
}

func TestScore_ForeignAnswerDegradesToTextOnly(t *testing.T) {
	q := &types.Quiz{PassPercentage: 50, Questions: []types.Question{mcq(5), mcq(5)}}
	foreign := q.Questions[1].Answers[0].ID
	s := Score(q, uuid.New(), map[uuid.UUID]Submission{
		q.Questions[0].ID: {AnswerID: &foreign, Text: "typed"},
	})
	if len(s.Answers) != 1 {
		t.Fatalf("expected one row, got %d", len(s.Answers))
	}
	row := s.Answers[0]
	if row.SelectedAnswerID != nil || row.IsCorrect || !row.PointsEarned.IsZero() || row.TextAnswer != "typed" {
		t.Fatalf("expected text-only zero-point row, got %+v", row)
	}

	missing := uuid.New()
	s = Score(q, uuid.New(), map[uuid.UUID]Submission{q.Questions[0].ID: {AnswerID: &missing}})
	if len(s.Answers) != 1 || s.Answers[0].SelectedAnswerID != nil {
		t.Fatalf("expected unknown id to be recorded without a selection, got %+v", s.Answers)
	}
}

func TestScore_ShortAnswerAndUnanswered(t *testing.T) {
	short := types.Question{ID: uuid.New(), QuestionType: types.QuestionShortAnswer, Text: "explain", Points: 4}
	q := &types.Quiz{PassPercentage: 50, Questions: []types.Question{short, mcq(4), mcq(2)}}
	s := Score(q, uuid.New(), map[uuid.UUID]Submission{
		short.ID:          {Text: "because"},
		q.Questions[1].ID: pick(q.Questions[1].Answers[0].ID),
		q.Questions[2].ID: {},
	})
	if len(s.Answers) != 2 {
		t.Fatalf("expected rows for the short answer and the mcq only, got %d", len(s.Answers))
	}
	for _, a := range s.Answers {
		if a.QuestionID == short.ID && (a.IsCorrect || !a.PointsEarned.IsZero()) {
			t.Fatalf("short answers must not be auto-scored: %+v", a)
		}
	}
	if s.TotalPoints != 10 || !s.Score.Equal(decimal.NewFromInt(4)) || !s.Percentage.Equal(decimal.NewFromInt(40)) || s.Passed {
		t.Fatalf("expected 4/10 = 40%% failed, got %s/%d = %s %v", s.Score, s.TotalPoints, s.Percentage, s.Passed)
	}
}

func TestScore_PercentageAndPassAgree(t *testing.T) {
	points := []int{1, 2, 3}
	for mask := 0; mask < 8; mask++ {
		for _, pass := range []int{0, 33, 50, 67, 100} {
			q := &types.Quiz{PassPercentage: pass}
			subs := map[uuid.UUID]Submission{}
			earned := 0
			for i, p := range points {
				qq := mcq(p)
				q.Questions = append(q.Questions, qq)
				if mask&(1<<i) != 0 {
					subs[qq.ID] = pick(qq.Answers[0].ID)
					earned += p
				} else {
					subs[qq.ID] = pick(qq.Answers[1].ID)
				}
			}
			s := Score(q, uuid.New(), subs)
			want := decimal.NewFromInt(int64(earned)).Mul(decimal.NewFromInt(100)).DivRound(decimal.NewFromInt(6), 2)
			if !s.Percentage.Equal(want) {
				t.Fatalf("mask=%d: expected %s, got %s", mask, want, s.Percentage)
			}
			if s.Passed != s.Percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(pass))) {
				t.Fatalf("mask=%d pass=%d: passed=%v disagrees with %s", mask, pass, s.Passed, s.Percentage)
			}
		}
	}
}

func TestScore_PassUsesStoredPercentage(t *testing.T) {
	// 13399 of 20000 is 66.995%, stored as 67.00.
	q := &types.Quiz{PassPercentage: 67, Questions: []types.Question{mcq(13399), mcq(6601)}}
	s := Score(q, uuid.New(), map[uuid.UUID]Submission{
		q.Questions[0].ID: pick(q.Questions[0].Answers[0].ID),
		q.Questions[1].ID: pick(q.Questions[1].Answers[1].ID),
	})
	if !s.Percentage.Equal(decimal.RequireFromString("67.00")) {
		t.Fatalf("expected 67.00, got %s", s.Percentage)
	}
	if !s.Passed {
		t.Fatalf("expected pass at the stored 67.00 against a 67 threshold")
	}

	q.PassPercentage = 68
	if s := Score(q, uuid.New(), map[uuid.UUID]Submission{q.Questions[0].ID: pick(q.Questions[0].Answers[0].ID)}); s.Passed {
		t.Fatalf("67.00 must not pass a 68 threshold")
	}
}

func TestQuestionOrder_RandomizeLeavesQuizUntouched(t *testing.T) {
	q := &types.Quiz{RandomizeQuestions: true, Questions: []types.Question{mcq(1), mcq(1), mcq(1)}}
	first := q.Questions[0].ID
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	order := questionOrder(q, reverse)
	if order[0] != q.Questions[2].ID || order[2] != first {
		t.Fatalf("expected reversed presentation order, got %v", order)
	}
	if q.Questions[0].ID != first {
		t.Fatalf("quiz questions were reordered")
	}

	got := orderedQuestions(q, encodeOrder(order))
	if got[0].ID != order[0] || got[2].ID != order[2] {
		t.Fatalf("saved order not honored")
	}
}
