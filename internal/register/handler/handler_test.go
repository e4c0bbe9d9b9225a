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

	"moodlog/internal/register/service"
	"moodlog/internal/register/store"
	"moodlog/internal/register/templates"
	id "moodlog/pkg/domain"
	"moodlog/pkg/testutil"
)

type fixedCounter map[id.DefinitionID]int

func (c fixedCounter) CountActiveByDefinition(_ context.Context, defID id.DefinitionID) (int, error) {
	return c[defID], nil
}

func newRegisterRouter(t *testing.T, counter fixedCounter) http.Handler {
	t.Helper()
	catalog, err := templates.Load()
	require.NoError(t, err)
	svc, err := service.New(store.NewInMemory(), counter, catalog)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

var moodFields = []map[string]any{
	{"id": "mood", "kind": "scale", "label": "Mood", "required": true, "min": 0, "max": 10},
	{"id": "note", "kind": "textarea", "label": "Note"},
}

func createRegister(t *testing.T, router http.Handler, owner id.SupervisorID) *DefinitionResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/registers", map[string]any{
		"name":   "Daily mood",
		"fields": moodFields,
	})
	rr := testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[DefinitionResponse](t, rr)
}

func TestCreateRegister(t *testing.T) {
	router := newRegisterRouter(t, fixedCounter{})
	owner := id.SupervisorID(uuid.New())

	t.Run("legacy kinds are normalized", func(t *testing.T) {
		d := createRegister(t, router, owner)
		assert.Equal(t, 1, d.SchemaVersion)
		assert.Equal(t, "authored", d.Provenance)
		require.Len(t, d.Fields, 2)
		assert.Equal(t, "bounded-scale", string(d.Fields[0].Kind))
		assert.Equal(t, "long-text", string(d.Fields[1].Kind))
	})

	t.Run("empty schema is rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/registers", map[string]any{"name": "Empty", "fields": []any{}})
		rr := testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertReason(t, rr, "EmptySchema")
	})

	t.Run("field errors name the offending field", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/registers", map[string]any{
			"name":   "Broken",
			"fields": []map[string]any{{"id": "pick", "kind": "single-select", "label": "Pick"}},
		})
		rr := testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "InvalidSchema", body.Reason)
		require.NotEmpty(t, body.Fields)
		assert.Equal(t, "pick", body.Fields[0].Field)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/registers", map[string]any{"fields": moodFields})
		rr := testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("subjects cannot author registers", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/registers", map[string]any{"name": "x", "fields": moodFields})
		rr := testutil.DoRequest(router, testutil.AsSubject(req, id.SubjectID(uuid.New())))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}

func TestRegisterOwnership(t *testing.T) {
	router := newRegisterRouter(t, fixedCounter{})
	owner := id.SupervisorID(uuid.New())
	other := id.SupervisorID(uuid.New())
	d := createRegister(t, router, owner)

	t.Run("owner reads the register", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers/"+d.ID), owner))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("another supervisor is forbidden", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers/"+d.ID), other))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("list only shows the caller's registers", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers"), other))
		testutil.AssertStatusOK(t, rr)
		list := testutil.UnmarshalResponse[DefinitionListResponse](t, rr)
		assert.Equal(t, 0, list.Total)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers/not-a-uuid"), owner))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestReplaceSchemaAndRetire(t *testing.T) {
	owner := id.SupervisorID(uuid.New())

	t.Run("replace bumps the version", func(t *testing.T) {
		router := newRegisterRouter(t, fixedCounter{})
		d := createRegister(t, router, owner)
		req := testutil.NewJSONRequest(t, http.MethodPut, "/registers/"+d.ID+"/schema", map[string]any{
			"fields": []map[string]any{{"id": "hours", "kind": "number", "label": "Hours slept", "min": 0}},
		})
		rr := testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		updated := testutil.UnmarshalResponse[DefinitionResponse](t, rr)
		assert.Equal(t, 2, updated.SchemaVersion)
	})

	t.Run("retire with active assignments conflicts", func(t *testing.T) {
		counter := fixedCounter{}
		router := newRegisterRouter(t, counter)
		d := createRegister(t, router, owner)
		defID, err := id.ParseDefinitionID(d.ID)
		require.NoError(t, err)
		counter[defID] = 1

		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodDelete, "/registers/"+d.ID), owner))
		testutil.AssertStatus(t, rr, http.StatusConflict)
		testutil.AssertReason(t, rr, "HasActiveAssignments")
	})

	t.Run("retire is idempotent", func(t *testing.T) {
		router := newRegisterRouter(t, fixedCounter{})
		d := createRegister(t, router, owner)
		for range 2 {
			rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodDelete, "/registers/"+d.ID), owner))
			testutil.AssertStatusOK(t, rr)
			retired := testutil.UnmarshalResponse[DefinitionResponse](t, rr)
			assert.False(t, retired.Active)
		}

		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers"), owner))
		assert.Equal(t, 0, testutil.UnmarshalResponse[DefinitionListResponse](t, rr).Total)
		rr = testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/registers?include_retired=true"), owner))
		assert.Equal(t, 1, testutil.UnmarshalResponse[DefinitionListResponse](t, rr).Total)
	})
}

func TestTemplates(t *testing.T) {
	router := newRegisterRouter(t, fixedCounter{})
	owner := id.SupervisorID(uuid.New())

	rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodGet, "/templates"), owner))
	testutil.AssertStatusOK(t, rr)
	list := testutil.UnmarshalResponse[TemplateListResponse](t, rr)
	require.NotEmpty(t, list.Templates)

	t.Run("copy produces an owned, non-editable register", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(
			testutil.NewRequest(t, http.MethodPost, "/templates/"+list.Templates[0].ID+"/copy"), owner))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		d := testutil.UnmarshalResponse[DefinitionResponse](t, rr)
		assert.Equal(t, "copied_from_template", d.Provenance)
		assert.Equal(t, list.Templates[0].ID, d.TemplateID)

		req := testutil.NewJSONRequest(t, http.MethodPut, "/registers/"+d.ID+"/schema", map[string]any{"fields": moodFields})
		rr = testutil.DoRequest(router, testutil.AsSupervisor(req, owner))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
		testutil.AssertReason(t, rr, "TemplateDerived")
	})

	t.Run("unknown template is not found", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.AsSupervisor(testutil.NewRequest(t, http.MethodPost, "/templates/nope/copy"), owner))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
