package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodlog/internal/adherence"
	"moodlog/internal/adherence/service"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/testutil"
)

type stubService struct {
	caller  id.UserID
	subject id.SubjectID
	asOf    id.Date
	window  int
	field   string
	err     error
	owner   id.SupervisorID
}

func (s *stubService) Report(_ context.Context, caller id.UserID, subjectID id.SubjectID, asOf id.Date, windowDays int) (*adherence.Report, error) {
	s.caller, s.subject, s.asOf, s.window = caller, subjectID, asOf, windowDays
	if s.err != nil {
		return nil, s.err
	}
	return &adherence.Report{SubjectID: subjectID, AsOf: asOf, WindowDays: windowDays, CurrentStreak: 2}, nil
}

func (s *stubService) FieldTrend(_ context.Context, caller id.UserID, subjectID id.SubjectID, assignmentID id.AssignmentID, fieldID string) (*service.FieldTrend, error) {
	s.caller, s.subject, s.field = caller, subjectID, fieldID
	return &service.FieldTrend{AssignmentID: assignmentID, FieldID: fieldID, Points: []adherence.Point{}}, nil
}

func (s *stubService) Overview(_ context.Context, supervisor id.SupervisorID, asOf id.Date) (*adherence.Overview, error) {
	s.owner, s.asOf = supervisor, asOf
	if s.err != nil {
		return nil, s.err
	}
	return &adherence.Overview{SupervisorID: supervisor, AsOf: asOf, TotalSubjects: 3, TopSubjects: []adherence.SubjectActivity{}}, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestSubjectReport(t *testing.T) {
	supervisor := id.SupervisorID(uuid.New())
	subject := id.SubjectID(uuid.New())

	t.Run("query parameters reach the service", func(t *testing.T) {
		svc := &stubService{}
		req := testutil.NewRequest(t, http.MethodGet, "/subjects/"+subject.String()+"/adherence?as_of=2024-01-31&window=14")
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatusOK(t, rr)

		assert.Equal(t, id.UserID(supervisor), svc.caller)
		assert.Equal(t, subject, svc.subject)
		assert.Equal(t, "2024-01-31", svc.asOf.String())
		assert.Equal(t, 14, svc.window)
		testutil.AssertJSONContains(t, rr, "current_streak", float64(2))
	})

	t.Run("bad window", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/subjects/"+subject.String()+"/adherence?window=-3")
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("forbidden maps to 403", func(t *testing.T) {
		svc := &stubService{err: dErrors.New(dErrors.CodeForbidden, "no").WithReason(dErrors.ReasonNotOwner)}
		req := testutil.NewRequest(t, http.MethodGet, "/subjects/"+subject.String()+"/adherence")
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
		testutil.AssertReason(t, rr, "NotOwner")
	})

	t.Run("subjects use their own route", func(t *testing.T) {
		svc := &stubService{}
		req := testutil.NewRequest(t, http.MethodGet, "/me/adherence")
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSubject(req, subject))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, subject, svc.subject)
		assert.True(t, svc.asOf.IsZero())

		req = testutil.NewRequest(t, http.MethodGet, "/subjects/"+subject.String()+"/adherence")
		rr = testutil.DoRequest(newRouter(svc), testutil.AsSubject(req, subject))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}

func TestSubjectTrend(t *testing.T) {
	supervisor := id.SupervisorID(uuid.New())
	subject := id.SubjectID(uuid.New())
	assignmentID := uuid.New()

	svc := &stubService{}
	req := testutil.NewRequest(t, http.MethodGet,
		"/subjects/"+subject.String()+"/trend?assignment_id="+assignmentID.String()+"&field_id=mood")
	rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "mood", svc.field)

	req = testutil.NewRequest(t, http.MethodGet, "/subjects/"+subject.String()+"/trend?assignment_id="+assignmentID.String())
	rr = testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestOverview(t *testing.T) {
	supervisor := id.SupervisorID(uuid.New())

	testutil.Given(t, "a supervisor asks for their practice overview", func(t *testing.T) {
		svc := &stubService{}
		req := testutil.NewRequest(t, http.MethodGet, "/adherence/overview?as_of=2024-03-04")
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))

		if !testutil.Then(t, "it is scoped to them", func(t *testing.T) {
			testutil.AssertStatusOK(t, rr)
			assert.Equal(t, supervisor, svc.owner)
			assert.Equal(t, "2024-03-04", svc.asOf.String())
		}) {
			return
		}
		testutil.And(t, "the body carries the most active subjects", func(t *testing.T) {
			testutil.AssertJSONHasKey(t, rr, "top_subjects")
		})
	})

	testutil.Given(t, "a malformed as_of", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/adherence/overview?as_of=March")
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.AsSupervisor(req, supervisor))

		testutil.Then(t, "it is a bad request", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	})

	testutil.Given(t, "a subject", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/adherence/overview")
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.AsSubject(req, id.SubjectID(uuid.New())))

		testutil.Then(t, "the route is refused", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
		})
	})

	testutil.Given(t, "the stores fail", func(t *testing.T) {
		svc := &stubService{err: dErrors.New(dErrors.CodeInternal, "boom")}
		req := testutil.NewRequest(t, http.MethodGet, "/adherence/overview")
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))

		testutil.Then(t, "it is a server error", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
		})
	})
}
