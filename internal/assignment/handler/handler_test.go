package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodlog/internal/assignment/models"
	"moodlog/internal/assignment/service"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/testutil"
)

type stubService struct {
	created  service.CreateInput
	createFn func(service.CreateInput) ([]*models.Assignment, error)
	views    []service.View
	subject  id.SubjectID
}

func (s *stubService) Create(_ context.Context, _ id.SupervisorID, in service.CreateInput) ([]*models.Assignment, error) {
	s.created = in
	return s.createFn(in)
}

func (s *stubService) Deactivate(_ context.Context, _ id.SupervisorID, assignmentID id.AssignmentID) (*models.Assignment, error) {
	now := time.Now()
	return &models.Assignment{ID: assignmentID, DeactivatedAt: &now}, nil
}

func (s *stubService) Get(_ context.Context, _ id.UserID, _ id.AssignmentID) (*service.View, error) {
	return nil, dErrors.New(dErrors.CodeForbidden, "nope").WithReason(dErrors.ReasonNotOwner)
}

func (s *stubService) ListBySupervisor(_ context.Context, _ id.SupervisorID, _ id.SubjectID, _ bool) ([]service.View, error) {
	return s.views, nil
}

func (s *stubService) ListBySubject(_ context.Context, subjectID id.SubjectID, _ bool) ([]service.View, error) {
	s.subject = subjectID
	return s.views, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleCreate(t *testing.T) {
	supervisor := id.SupervisorID(uuid.New())
	subject := uuid.New()
	defID := uuid.New()

	t.Run("request is parsed into service input", func(t *testing.T) {
		svc := &stubService{createFn: func(in service.CreateInput) ([]*models.Assignment, error) {
			return []*models.Assignment{{ID: id.AssignmentID(uuid.New()), Active: true, Cadence: in.Params.Cadence}}, nil
		}}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/assignments", map[string]any{
			"definition_id": defID.String(),
			"subject_ids":   []string{subject.String()},
			"cadence":       "as_needed",
			"start_date":    "2024-01-01",
			"end_date":      "2024-02-01",
			"notes":         "  evenings  ",
		})
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		assert.Equal(t, id.DefinitionID(defID), svc.created.DefinitionID)
		assert.Equal(t, []id.SubjectID{id.SubjectID(subject)}, svc.created.SubjectIDs)
		assert.Equal(t, models.CadenceAsNeeded, svc.created.Params.Cadence)
		assert.Equal(t, "2024-02-01", svc.created.Params.EndDate.String())
	})

	t.Run("duplicate maps to 409 with reason", func(t *testing.T) {
		svc := &stubService{createFn: func(service.CreateInput) ([]*models.Assignment, error) {
			return nil, dErrors.New(dErrors.CodeConflict, "dup").WithReason(dErrors.ReasonDuplicateActiveAssignment)
		}}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/assignments", map[string]any{
			"definition_id": defID.String(),
			"subject_ids":   []string{subject.String()},
			"cadence":       "daily",
			"start_date":    "2024-01-01",
		})
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatus(t, rr, http.StatusConflict)
		testutil.AssertReason(t, rr, "DuplicateActiveAssignment")
	})

	t.Run("unknown cadence is rejected before the service", func(t *testing.T) {
		svc := &stubService{}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/assignments", map[string]any{
			"template_id": "mood-diary",
			"subject_ids": []string{subject.String()},
			"cadence":     "hourly",
			"start_date":  "2024-01-01",
		})
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("malformed date is a bad request", func(t *testing.T) {
		svc := &stubService{}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/assignments", map[string]any{
			"template_id": "mood-diary",
			"subject_ids": []string{subject.String()},
			"cadence":     "daily",
			"start_date":  "01/02/2024",
		})
		rr := testutil.DoRequest(newRouter(svc), testutil.AsSupervisor(req, supervisor))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("subjects cannot create assignments", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/assignments", map[string]any{})
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.AsSubject(req, id.SubjectID(subject)))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}

func TestSubjectListAndGet(t *testing.T) {
	subject := id.SubjectID(uuid.New())
	a := &models.Assignment{ID: id.AssignmentID(uuid.New()), SubjectID: subject, Cadence: models.CadenceDaily, Active: true}
	svc := &stubService{views: []service.View{{Assignment: a, Status: models.Status{IsDueToday: true}}}}
	router := newRouter(svc)

	t.Run("subject sees own assignments with status", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSubject(testutil.NewRequest(t, http.MethodGet, "/me/assignments"), subject))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[AssignmentListResponse](t, rr)
		require.Len(t, resp.Assignments, 1)
		require.NotNil(t, resp.Assignments[0].Status)
		assert.True(t, resp.Assignments[0].Status.IsDueToday)
		assert.Equal(t, subject, svc.subject)
	})

	t.Run("forbidden get surfaces as 403", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSubject(testutil.NewRequest(t, http.MethodGet, "/assignments/"+a.ID.String()), subject))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})
}
