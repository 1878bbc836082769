package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/academy-backend/internal/data/repos"
	"github.com/yungbote/academy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/academy-backend/internal/domain"
	httpH "github.com/yungbote/academy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/academy-backend/internal/http/middleware"
	"github.com/yungbote/academy-backend/internal/modules/catalog"
	"github.com/yungbote/academy-backend/internal/modules/certificates"
	"github.com/yungbote/academy-backend/internal/modules/notify"
	"github.com/yungbote/academy-backend/internal/modules/quiz"
)

const (
	secret  = "router-test-secret"
	baseURL = "https://academy.example"
)

type harness struct {
	t      *testing.T
	conn   *gorm.DB
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn := testutil.DB(t)
	log := testutil.Logger(t)

	notifications := repos.NewNotificationRepo(conn, log)
	emitter := notify.NewEmitter(log, notify.NewDBSink(notifications))

	cat := catalog.New(catalog.UsecasesDeps{
		Log:         log,
		Courses:     repos.NewCourseRepo(conn, log),
		Lessons:     repos.NewLessonRepo(conn, log),
		Enrollments: repos.NewEnrollmentRepo(conn, log),
		Progress:    repos.NewLessonProgressRepo(conn, log),
		Notify:      emitter,
	})
	quizzes := quiz.New(quiz.UsecasesDeps{
		DB:         conn,
		Log:        log,
		Quizzes:    repos.NewQuizRepo(conn, log),
		Attempts:   repos.NewAttemptRepo(conn, log),
		Enrollment: cat,
		Notify:     emitter,
	})
	certs := certificates.New(certificates.UsecasesDeps{
		Log:          log,
		Certificates: repos.NewCertificateRepo(conn, log),
		Courses:      repos.NewCourseRepo(conn, log),
		Quizzes:      repos.NewQuizRepo(conn, log),
		Attempts:     repos.NewAttemptRepo(conn, log),
		Settings:     repos.NewSiteSettingsRepo(conn, log),
		Progress:     cat,
		Notify:       emitter,
		BaseURL:      baseURL,
	})

	router := NewRouter(RouterConfig{
		Log:                 log,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(secret)),
		QuizHandler:         httpH.NewQuizHandler(log, quizzes),
		CertificateHandler:  httpH.NewCertificateHandler(log, certs),
		CatalogHandler:      httpH.NewCatalogHandler(log, cat),
		NotificationHandler: httpH.NewNotificationHandler(log, notify.NewInbox(notifications)),
		HealthHandler:       httpH.NewHealthHandler(nil),
	})
	return &harness{t: t, conn: conn, router: router}
}

func (h *harness) token(userID uuid.UUID) string {
	h.t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	if err != nil {
		h.t.Fatalf("sign token: %v", err)
	}
	return s
}

func (h *harness) do(method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+h.token(userID))
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("got status %d want %d: %s", rec.Code, status, rec.Body.String())
	}
}

func TestRouter_QuizToCertificateFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	student := testutil.SeedUser(t, ctx, h.conn, "student")
	course := testutil.SeedCourse(t, ctx, h.conn, "Distributed Systems", "0")
	lessons := testutil.SeedLessons(t, ctx, h.conn, course.ID, 2)
	q := testutil.SeedQuiz(t, ctx, h.conn, course.ID, 6, 4)

	expect(t, h.do(http.MethodGet, "/healthcheck", uuid.Nil, nil), http.StatusOK)
	expect(t, h.do(http.MethodPost, "/api/courses/"+course.ID.String()+"/enroll", uuid.Nil, nil), http.StatusUnauthorized)
	expect(t, h.do(http.MethodPost, "/api/courses/"+course.ID.String()+"/enroll", student.ID, nil), http.StatusCreated)
	expect(t, h.do(http.MethodPost, "/api/courses/"+course.ID.String()+"/enroll", student.ID, nil), http.StatusOK)

	listing := decode[struct {
		Quizzes []struct {
			AttemptsLeft int `json:"attempts_left"`
		} `json:"quizzes"`
	}](t, h.do(http.MethodGet, "/api/courses/"+course.ID.String()+"/quizzes", student.ID, nil))
	if len(listing.Quizzes) != 1 || listing.Quizzes[0].AttemptsLeft != q.MaxAttempts {
		t.Fatalf("unexpected quiz listing: %+v", listing)
	}

	rec := h.do(http.MethodPost, "/api/quizzes/"+q.ID.String()+"/attempts", student.ID, nil)
	expect(t, rec, http.StatusCreated)
	started := decode[struct {
		Attempt struct {
			ID uuid.UUID `json:"id"`
		} `json:"attempt"`
		Questions []struct {
			ID      uuid.UUID         `json:"id"`
			Options []json.RawMessage `json:"options"`
		} `json:"questions"`
	}](t, rec)
	if len(started.Questions) != 2 || bytes.Contains(rec.Body.Bytes(), []byte("is_correct")) {
		t.Fatalf("start attempt leaked correctness or lost questions: %s", rec.Body.String())
	}

	answers := map[string]any{}
	for _, question := range q.Questions {
		answers[question.ID.String()] = map[string]any{"answer_id": question.Answers[0].ID}
	}
	attemptPath := "/api/attempts/" + started.Attempt.ID.String()
	rec = h.do(http.MethodPost, attemptPath+"/submit", student.ID, map[string]any{"answers": answers})
	expect(t, rec, http.StatusOK)
	submitted := decode[struct {
		Percentage decimal.Decimal `json:"percentage"`
		Passed     bool            `json:"passed"`
	}](t, rec)
	if !submitted.Passed || !submitted.Percentage.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected submission result: %s", rec.Body.String())
	}
	expect(t, h.do(http.MethodPost, attemptPath+"/submit", student.ID, map[string]any{"answers": answers}), http.StatusConflict)
	expect(t, h.do(http.MethodGet, attemptPath+"/results", student.ID, nil), http.StatusOK)
	expect(t, h.do(http.MethodGet, attemptPath+"/review", student.ID, nil), http.StatusOK)

	coursePath := "/api/courses/" + course.ID.String()
	expect(t, h.do(http.MethodPost, coursePath+"/certificate", student.ID, nil), http.StatusForbidden)
	for _, l := range lessons {
		expect(t, h.do(http.MethodPost, "/api/lessons/"+l.ID.String()+"/toggle-complete", student.ID, nil), http.StatusOK)
	}
	elig := decode[struct {
		Eligible bool `json:"eligible"`
	}](t, h.do(http.MethodGet, coursePath+"/certificate/eligibility", student.ID, nil))
	if !elig.Eligible {
		t.Fatalf("expected eligibility after completing every lesson")
	}

	rec = h.do(http.MethodPost, coursePath+"/certificate", student.ID, nil)
	expect(t, rec, http.StatusCreated)
	issued := decode[struct {
		Certificate struct {
			CertificateID string          `json:"certificate_id"`
			Grade         decimal.Decimal `json:"grade"`
		} `json:"certificate"`
		VerifyURL string `json:"verify_url"`
	}](t, rec)
	certID := issued.Certificate.CertificateID
	if !issued.Certificate.Grade.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected grade 100, got %s", issued.Certificate.Grade)
	}
	expect(t, h.do(http.MethodPost, coursePath+"/certificate", student.ID, nil), http.StatusOK)

	rec = h.do(http.MethodGet, "/api/certificates/"+certID+"/pdf", student.ID, nil)
	expect(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	rec = h.do(http.MethodGet, "/api/certificates/"+certID+"/image", student.ID, nil)
	expect(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}

	outsider := testutil.SeedUser(t, ctx, h.conn, "outsider")
	expect(t, h.do(http.MethodGet, "/api/certificates/"+certID+"/pdf", outsider.ID, nil), http.StatusForbidden)
	expect(t, h.do(http.MethodGet, attemptPath+"/results", outsider.ID, nil), http.StatusForbidden)

	rec = h.do(http.MethodGet, "/api/certificates/verify/"+certID, uuid.Nil, nil)
	expect(t, rec, http.StatusOK)
	if bytes.Contains(rec.Body.Bytes(), []byte(student.Email)) {
		t.Fatalf("verification leaked the recipient email: %s", rec.Body.String())
	}
	expect(t, h.do(http.MethodGet, "/api/certificates/verify/CERT-000000000000", uuid.Nil, nil), http.StatusNotFound)

	// the link printed on the certificate resolves on this service
	printed, ok := strings.CutPrefix(issued.VerifyURL, baseURL)
	if !ok {
		t.Fatalf("verify url %q not under %s", issued.VerifyURL, baseURL)
	}
	rec = h.do(http.MethodGet, printed, uuid.Nil, nil)
	expect(t, rec, http.StatusOK)
	if !bytes.Contains(rec.Body.Bytes(), []byte(certID)) {
		t.Fatalf("printed verify link returned another certificate: %s", rec.Body.String())
	}

	inbox := decode[struct {
		Notifications []struct {
			Kind   types.NotificationKind `json:"notification_type"`
			IsRead bool                   `json:"is_read"`
		} `json:"notifications"`
	}](t, h.do(http.MethodGet, "/api/notifications", student.ID, nil))
	kinds := map[types.NotificationKind]bool{}
	for _, n := range inbox.Notifications {
		kinds[n.Kind] = true
		if !n.IsRead {
			t.Fatalf("listed notifications should come back read")
		}
	}
	for _, k := range []types.NotificationKind{types.NotificationEnrollment, types.NotificationQuizResult, types.NotificationCertificate} {
		if !kinds[k] {
			t.Fatalf("missing %s notification in %+v", k, inbox.Notifications)
		}
	}
}

func TestRouter_RejectsMalformedIDs(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, context.Background(), h.conn, "someone")

	expect(t, h.do(http.MethodPost, "/api/quizzes/not-a-uuid/attempts", user.ID, nil), http.StatusBadRequest)
	expect(t, h.do(http.MethodGet, "/api/attempts/"+uuid.NewString()+"/results", user.ID, nil), http.StatusNotFound)
	expect(t, h.do(http.MethodGet, "/api/certificates/verify/garbage", uuid.Nil, nil), http.StatusNotFound)
}
