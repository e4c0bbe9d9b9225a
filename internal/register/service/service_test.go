package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	"moodlog/internal/register/service/mocks"
	"moodlog/internal/register/templates"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockStore   *mocks.MockStore
	mockCounter *mocks.MockActiveAssignmentCounter
	mockCatalog *mocks.MockTemplateCatalog
	service     *Service
	ctx         context.Context
	owner       id.SupervisorID
	now         time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockCounter = mocks.NewMockActiveAssignmentCounter(s.ctrl)
	s.mockCatalog = mocks.NewMockTemplateCatalog(s.ctrl)

	svc, err := New(s.mockStore, s.mockCounter, s.mockCatalog)
	s.Require().NoError(err)
	s.service = svc

	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.owner = id.SupervisorID(uuid.New())
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func moodSchema() schema.Schema {
	return schema.Schema{Fields: []schema.FieldSpec{
		{ID: "mood", Kind: schema.KindBoundedScale, Label: "Mood", Required: true, Min: schema.Float(0), Max: schema.Float(10)},
		{ID: "note", Kind: schema.KindLongText, Label: "Note"},
	}}
}

func (s *ServiceSuite) authored(owner id.SupervisorID) *models.Definition {
	validated, err := schema.Validate(moodSchema())
	s.Require().NoError(err)
	d, err := models.NewDefinition(id.DefinitionID(uuid.New()), owner, "Mood", "", validated, s.now.Add(-time.Hour))
	s.Require().NoError(err)
	return d
}

func (s *ServiceSuite) TestNew() {
	s.Run("nil store is rejected", func() {
		_, err := New(nil, s.mockCounter, s.mockCatalog)
		s.Require().Error(err)
	})

	s.Run("nil counter is rejected", func() {
		_, err := New(s.mockStore, nil, s.mockCatalog)
		s.Require().Error(err)
	})

	s.Run("nil catalog is rejected", func() {
		_, err := New(s.mockStore, s.mockCounter, nil)
		s.Require().Error(err)
	})
}

func (s *ServiceSuite) TestCreate() {
	s.Run("valid schema is stored at version 1", func() {
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		d, err := s.service.Create(s.ctx, s.owner, "  Daily mood ", "how was today", moodSchema())
		s.Require().NoError(err)
		s.Equal("Daily mood", d.Name)
		s.Equal(1, d.Schema.Version)
		s.Equal(models.ProvenanceAuthored, d.Provenance)
		s.Equal(s.owner, d.OwnerID)
		s.True(d.Active)
		s.Equal(s.now, d.CreatedAt)
	})

	s.Run("empty schema is rejected before storage", func() {
		_, err := s.service.Create(s.ctx, s.owner, "Empty", "", schema.Schema{})
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonEmptySchema))
	})

	s.Run("invalid schema reports the offending field", func() {
		bad := schema.Schema{Fields: []schema.FieldSpec{
			{ID: "pick", Kind: schema.KindSingleSelect, Label: "Pick"},
		}}
		_, err := s.service.Create(s.ctx, s.owner, "Bad", "", bad)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidSchema))
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Require().NotEmpty(de.Fields)
		s.Equal("pick", de.Fields[0].Field)
	})

	s.Run("blank name is a validation error", func() {
		_, err := s.service.Create(s.ctx, s.owner, "   ", "", moodSchema())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure is internal", func() {
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(assertErr)

		_, err := s.service.Create(s.ctx, s.owner, "Mood", "", moodSchema())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestReplaceSchema() {
	s.Run("authored definition gets the next version", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, updated *models.Definition) error {
				s.Equal(2, updated.Schema.Version)
				s.Len(updated.Schema.Fields, 1)
				return nil
			})

		next := schema.Schema{Fields: []schema.FieldSpec{{ID: "sleep", Kind: schema.KindNumber, Label: "Hours slept"}}}
		updated, err := s.service.ReplaceSchema(s.ctx, s.owner, d.ID, next)
		s.Require().NoError(err)
		s.Equal(2, updated.Schema.Version)
		s.Equal(s.now, updated.UpdatedAt)
	})

	s.Run("template-derived definition is forbidden", func() {
		d := s.authored(s.owner)
		d.Provenance = models.ProvenanceFromTemplate
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.ReplaceSchema(s.ctx, s.owner, d.ID, moodSchema())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.True(dErrors.HasReason(err, dErrors.ReasonTemplateDerived))
	})

	s.Run("another supervisor is forbidden", func() {
		d := s.authored(id.SupervisorID(uuid.New()))
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.ReplaceSchema(s.ctx, s.owner, d.ID, moodSchema())
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonNotOwner))
	})

	s.Run("invalid candidate leaves the definition untouched", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.ReplaceSchema(s.ctx, s.owner, d.ID, schema.Schema{})
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonEmptySchema))
	})

	s.Run("missing definition is not found", func() {
		defID := id.DefinitionID(uuid.New())
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), defID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.ReplaceSchema(s.ctx, s.owner, defID, moodSchema())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestRetire() {
	s.Run("definition without active assignments is retired", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)
		s.mockCounter.EXPECT().CountActiveByDefinition(gomock.Any(), d.ID).Return(0, nil)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		retired, err := s.service.Retire(s.ctx, s.owner, d.ID)
		s.Require().NoError(err)
		s.False(retired.Active)
		s.Require().NotNil(retired.RetiredAt)
		s.Equal(s.now, *retired.RetiredAt)
	})

	s.Run("active assignments block retirement", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)
		s.mockCounter.EXPECT().CountActiveByDefinition(gomock.Any(), d.ID).Return(2, nil)

		_, err := s.service.Retire(s.ctx, s.owner, d.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(dErrors.HasReason(err, dErrors.ReasonHasActiveAssignments))
	})

	s.Run("retiring twice is a no-op", func() {
		d := s.authored(s.owner)
		first := s.now.Add(-24 * time.Hour)
		d.ApplyRetirement(first)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		retired, err := s.service.Retire(s.ctx, s.owner, d.ID)
		s.Require().NoError(err)
		s.Equal(first, *retired.RetiredAt)
	})

	s.Run("another supervisor is forbidden", func() {
		d := s.authored(id.SupervisorID(uuid.New()))
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.Retire(s.ctx, s.owner, d.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestGetAndList() {
	s.Run("owner reads their definition", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)

		got, err := s.service.Get(s.ctx, s.owner, d.ID)
		s.Require().NoError(err)
		s.Equal(d.ID, got.ID)
	})

	s.Run("other caller is forbidden", func() {
		d := s.authored(id.SupervisorID(uuid.New()))
		s.mockStore.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.Get(s.ctx, s.owner, d.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("list passes the retired filter through", func() {
		s.mockStore.EXPECT().ListByOwner(gomock.Any(), s.owner, true).Return([]*models.Definition{s.authored(s.owner)}, nil)

		defs, err := s.service.List(s.ctx, s.owner, true)
		s.Require().NoError(err)
		s.Len(defs, 1)
	})
}

func (s *ServiceSuite) TestCopyTemplate() {
	tpl := templates.Template{ID: "mood-diary", Name: "Mood diary", Description: "Daily mood", Schema: moodSchema()}

	s.Run("template becomes an owned copy", func() {
		s.mockCatalog.EXPECT().Get("mood-diary").Return(tpl, true)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		d, err := s.service.CopyTemplate(s.ctx, s.owner, "mood-diary")
		s.Require().NoError(err)
		s.Equal(models.ProvenanceFromTemplate, d.Provenance)
		s.Equal("mood-diary", d.TemplateID)
		s.Equal(s.owner, d.OwnerID)
		s.Equal(1, d.Schema.Version)

		d.Schema.Fields[0].Label = "changed"
		s.Equal("Mood", tpl.Schema.Fields[0].Label)
	})

	s.Run("unknown template is not found", func() {
		s.mockCatalog.EXPECT().Get("nope").Return(templates.Template{}, false)

		_, err := s.service.CopyTemplate(s.ctx, s.owner, "nope")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestLockForAssignment() {
	s.Run("active owned definition is returned", func() {
		d := s.authored(s.owner)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		got, err := s.service.LockForAssignment(s.ctx, s.owner, d.ID)
		s.Require().NoError(err)
		s.Equal(d.ID, got.ID)
	})

	s.Run("retired definition cannot be assigned", func() {
		d := s.authored(s.owner)
		d.ApplyRetirement(s.now)
		s.mockStore.EXPECT().FindForUpdate(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.LockForAssignment(s.ctx, s.owner, d.ID)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonDefinitionRetired))
	})
}

var assertErr = errors.New("connection reset")
