package quiz

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/academy-backend/internal/domain"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/academy-backend/internal/pkg/errors"
	"github.com/yungbote/academy-backend/internal/platform/apierr"
)

type captured struct{ events []notify.Event }

func (c *captured) Emit(_ context.Context, ev notify.Event) { c.events = append(c.events, ev) }

type enrolledIn map[uuid.UUID]bool

func (e enrolledIn) Exists(_ context.Context, _ uuid.UUID, courseID uuid.UUID) (bool, error) {
	return e[courseID], nil
}

type fixture struct {
	conn   *gorm.DB
	uc     Usecases
	user   *types.User
	course *types.Course
	quiz   *types.Quiz
	events *captured
}

func setup(t *testing.T, points ...int) *fixture {
	t.Helper()
	conn := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	f := &fixture{conn: conn, events: &captured{}}
	f.user = testutil.SeedUser(t, ctx, conn, "taker")
	f.course = testutil.SeedCourse(t, ctx, conn, "Course", "0")
	f.quiz = testutil.SeedQuiz(t, ctx, conn, f.course.ID, points...)
	f.uc = New(UsecasesDeps{
		DB:         conn,
		Log:        log,
		Quizzes:    repos.NewQuizRepo(conn, log),
		Attempts:   repos.NewAttemptRepo(conn, log),
		Enrollment: enrolledIn{f.course.ID: true},
		Notify:     f.events,
	})
	return f
}

func (f *fixture) submit(t *testing.T, attemptID uuid.UUID, correct bool) (*SubmitAttemptOutput, error) {
	t.Helper()
	subs := map[uuid.UUID]Submission{}
	for _, q := range f.quiz.Questions {
		idx := 1
		if correct {
			idx = 0
		}
		id := q.Answers[idx].ID
		subs[q.ID] = Submission{AnswerID: &id}
	}
	return f.uc.SubmitAttempt(context.Background(), SubmitAttemptInput{UserID: f.user.ID, AttemptID: attemptID, Answers: subs})
}

func TestStartAttempt_EnforcesMaxAttempts(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	for i := 1; i <= f.quiz.MaxAttempts; i++ {
		out, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
		if err != nil {
			t.Fatalf("StartAttempt #%d: %v", i, err)
		}
		if out.Attempt.AttemptNumber != i {
			t.Fatalf("StartAttempt #%d: got attempt number %d", i, out.Attempt.AttemptNumber)
		}
	}

	_, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if !errors.Is(err, apperrors.ErrAttemptLimitExceeded) {
		t.Fatalf("expected ErrAttemptLimitExceeded, got %v", err)
	}
}

func TestStartAttempt_HidesCorrectnessAndChecksAccess(t *testing.T) {
	f := setup(t, 10, 5)
	ctx := context.Background()

	out, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if len(out.Questions) != 2 || len(out.Questions[0].Options) != 2 {
		t.Fatalf("unexpected presentation: %+v", out.Questions)
	}
	if out.Deadline != nil {
		t.Fatalf("expected no deadline without a time limit")
	}

	outsider := testutil.SeedUser(t, ctx, f.conn, "outsider")
	other := testutil.SeedCourse(t, ctx, f.conn, "Other", "0")
	otherQuiz := testutil.SeedQuiz(t, ctx, f.conn, other.ID, 1)
	if _, err := f.uc.StartAttempt(ctx, outsider.ID, otherQuiz.ID); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}

	if err := f.conn.Model(&types.Quiz{}).Where("id = ?", f.quiz.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID); !errors.Is(err, apperrors.ErrQuizInactive) {
		t.Fatalf("expected ErrQuizInactive, got %v", err)
	}

	if _, err := f.uc.StartAttempt(ctx, f.user.ID, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitAttempt_CorrectAnswerScoresFull(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	out, err := f.submit(t, started.Attempt.ID, true)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if !out.Score.Equal(decimal.NewFromInt(10)) || !out.Percentage.Equal(decimal.NewFromInt(100)) || !out.Passed {
		t.Fatalf("expected 10/100/passed, got %+v", out)
	}
	if len(f.events.events) != 1 || f.events.events[0].Kind != types.NotificationQuizResult {
		t.Fatalf("expected one quiz result notification, got %+v", f.events.events)
	}
}

func TestSubmitAttempt_SecondSubmitRejectedAndStateUnchanged(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := f.submit(t, started.Attempt.ID, false); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	before, err := f.uc.GetResults(ctx, f.user.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}

	_, err = f.submit(t, started.Attempt.ID, true)
	if !errors.Is(err, apperrors.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	after, err := f.uc.GetResults(ctx, f.user.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if !after.Percentage.Equal(before.Percentage) || after.Passed != before.Passed || after.AnsweredCount != before.AnsweredCount {
		t.Fatalf("attempt changed after rejected submit: before=%+v after=%+v", before, after)
	}
	if !after.Percentage.IsZero() || after.Passed {
		t.Fatalf("expected the first (wrong) submission to stand, got %+v", after)
	}

	var rows int64
	if err := f.conn.Model(&types.UserAnswer{}).Where("attempt_id = ?", started.Attempt.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 answer row, got %d", rows)
	}
}

func TestSubmitAttempt_RejectsOtherUsers(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	_, err = f.uc.SubmitAttempt(ctx, SubmitAttemptInput{UserID: uuid.New(), AttemptID: started.Attempt.ID})
	if !errors.Is(err, apperrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	_, err = f.uc.SubmitAttempt(ctx, SubmitAttemptInput{UserID: f.user.ID, AttemptID: uuid.New()})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetResults_RequiresCompletedAttempt(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := f.uc.GetResults(ctx, f.user.ID, started.Attempt.ID); !errors.Is(err, apperrors.ErrAttemptNotCompleted) {
		t.Fatalf("expected ErrAttemptNotCompleted, got %v", err)
	}
}

func TestGetReview_RespectsShowAnswers(t *testing.T) {
	f := setup(t, 10, 10)
	ctx := context.Background()

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := f.submit(t, started.Attempt.ID, true); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	review, err := f.uc.GetReview(ctx, f.user.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if review.AnswersHidden || len(review.Questions) != 2 {
		t.Fatalf("expected full review, got %+v", review)
	}
	for _, q := range review.Questions {
		if q.Response == nil || !q.Response.IsCorrect {
			t.Fatalf("expected a correct response on every question, got %+v", q)
		}
	}

	if err := f.conn.Model(&types.Quiz{}).Where("id = ?", f.quiz.ID).Update("show_answers", false).Error; err != nil {
		t.Fatalf("hide answers: %v", err)
	}
	review, err = f.uc.GetReview(ctx, f.user.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("GetReview (hidden): %v", err)
	}
	if !review.AnswersHidden || len(review.Questions) != 0 || !review.Results.Passed {
		t.Fatalf("expected results only, got %+v", review)
	}
}

func TestListCourseQuizzes_ReportsAttemptsLeftAndBest(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()

	first, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := f.submit(t, first.Attempt.ID, false); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	second, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := f.submit(t, second.Attempt.ID, true); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	list, err := f.uc.ListCourseQuizzes(ctx, f.user.ID, f.course.ID)
	if err != nil {
		t.Fatalf("ListCourseQuizzes: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(list))
	}
	s := list[0]
	if s.AttemptsUsed != 2 || s.AttemptsLeft != 1 || s.BestPercentage == nil || !s.BestPercentage.Equal(decimal.NewFromInt(100)) || !s.Passed {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Quiz.TotalPoints != 10 {
		t.Fatalf("expected total points 10, got %d", s.Quiz.TotalPoints)
	}

	overview, err := f.uc.GetQuizOverview(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("GetQuizOverview: %v", err)
	}
	if len(overview.Attempts) != 2 || overview.Attempts[0].AttemptNumber != 2 || overview.BestAttempt == nil || overview.BestAttempt.ID != second.Attempt.ID {
		t.Fatalf("unexpected overview: %+v", overview)
	}
}

func TestStartAttempt_RandomizedOrderPersistsForReview(t *testing.T) {
	f := setup(t, 1, 2, 3)
	ctx := context.Background()
	if err := f.conn.Model(&types.Quiz{}).Where("id = ?", f.quiz.ID).Update("randomize_questions", true).Error; err != nil {
		t.Fatalf("randomize: %v", err)
	}
	log := testutil.Logger(t)
	f.uc = New(UsecasesDeps{
		DB:         f.conn,
		Log:        log,
		Quizzes:    repos.NewQuizRepo(f.conn, log),
		Attempts:   repos.NewAttemptRepo(f.conn, log),
		Enrollment: enrolledIn{f.course.ID: true},
		Shuffle: func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		},
	})

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if started.Questions[0].Points != 3 || started.Questions[2].Points != 1 {
		t.Fatalf("expected reversed presentation, got %+v", started.Questions)
	}
	if _, err := f.submit(t, started.Attempt.ID, true); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	review, err := f.uc.GetReview(ctx, f.user.ID, started.Attempt.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if review.Questions[0].Points != 3 {
		t.Fatalf("expected review in presented order, got %+v", review.Questions)
	}

	reloaded, err := repos.NewQuizRepo(f.conn, log).GetWithQuestions(dbctxFor(ctx), f.quiz.ID)
	if err != nil {
		t.Fatalf("GetWithQuestions: %v", err)
	}
	if reloaded.Questions[0].Points != 1 {
		t.Fatalf("stored question order changed")
	}
}

func dbctxFor(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }

func TestSubmitAttempt_FailedCommitLeavesAttemptOpen(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()
	log := testutil.Logger(t)

	started, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	commitErr := errors.New("commit failed")
	runner := &testutil.InjectedTxRunner{DB: f.conn, FailCommit: commitErr}
	f.uc = New(UsecasesDeps{
		DB:         f.conn,
		Log:        log,
		Runner:     runner,
		Quizzes:    repos.NewQuizRepo(f.conn, log),
		Attempts:   repos.NewAttemptRepo(f.conn, log),
		Enrollment: enrolledIn{f.course.ID: true},
		Notify:     f.events,
	})

	if _, err := f.submit(t, started.Attempt.ID, true); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("expected one rollback, got %d", runner.RollbackCalls)
	}
	if len(f.events.events) != 0 {
		t.Fatalf("no notification may be emitted for an uncommitted submission, got %+v", f.events.events)
	}

	attempts := repos.NewAttemptRepo(f.conn, log)
	a, err := attempts.GetByID(dbctxFor(ctx), started.Attempt.ID)
	if err != nil || a == nil || a.IsCompleted {
		t.Fatalf("expected attempt to stay open: a=%+v err=%v", a, err)
	}
	answers, err := attempts.ListUserAnswers(dbctxFor(ctx), started.Attempt.ID)
	if err != nil || len(answers) != 0 {
		t.Fatalf("expected no answer rows: %d err=%v", len(answers), err)
	}

	runner.FailCommit = nil
	if out, err := f.submit(t, started.Attempt.ID, true); err != nil || !out.Passed {
		t.Fatalf("retry after rollback: out=%+v err=%v", out, err)
	}
}

// laggingCounts under-reports prior attempts, as a start racing a concurrent
// start for the same user and quiz would see them.
type laggingCounts struct {
	repos.AttemptRepo
	lagFor int
	calls  int
}

func (l *laggingCounts) CountByUserQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (int64, error) {
	l.calls++
	n, err := l.AttemptRepo.CountByUserQuiz(dbc, userID, quizID)
	if err == nil && n > 0 && (l.lagFor < 0 || l.calls <= l.lagFor) {
		n--
	}
	return n, err
}

func (f *fixture) withAttempts(t *testing.T, attempts repos.AttemptRepo, retries int) {
	t.Helper()
	log := testutil.Logger(t)
	f.uc = New(UsecasesDeps{
		DB:                   f.conn,
		Log:                  log,
		Quizzes:              repos.NewQuizRepo(f.conn, log),
		Attempts:             attempts,
		Enrollment:           enrolledIn{f.course.ID: true},
		Notify:               f.events,
		AttemptCreateRetries: retries,
	})
}

func TestStartAttempt_RetriesTakenAttemptNumber(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()
	if _, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	lag := &laggingCounts{AttemptRepo: repos.NewAttemptRepo(f.conn, testutil.Logger(t)), lagFor: 1}
	f.withAttempts(t, lag, 3)

	out, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("expected the collision to be retried, got %v", err)
	}
	if out.Attempt.AttemptNumber != 2 {
		t.Fatalf("expected attempt number 2 after retry, got %d", out.Attempt.AttemptNumber)
	}
	if lag.calls != 2 {
		t.Fatalf("expected one retry, got %d counts", lag.calls)
	}
	n, err := lag.AttemptRepo.CountByUserQuiz(dbctxFor(ctx), f.user.ID, f.quiz.ID)
	if err != nil || n != 2 {
		t.Fatalf("expected two attempts stored, got %d (err=%v)", n, err)
	}
}

func TestStartAttempt_ExhaustedRetriesAreInternal(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()
	if _, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	lag := &laggingCounts{AttemptRepo: repos.NewAttemptRepo(f.conn, testutil.Logger(t)), lagFor: -1}
	f.withAttempts(t, lag, 2)

	_, err := f.uc.StartAttempt(ctx, f.user.ID, f.quiz.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusInternalServerError || ae.Code != "create_attempt_failed" {
		t.Fatalf("expected a 500 create_attempt_failed, got %v", err)
	}
	if lag.calls != 2 {
		t.Fatalf("expected %d tries, got %d", 2, lag.calls)
	}
	n, err := lag.AttemptRepo.CountByUserQuiz(dbctxFor(ctx), f.user.ID, f.quiz.ID)
	if err != nil || n != 1 {
		t.Fatalf("failed starts must not leave rows, got %d (err=%v)", n, err)
	}
}
