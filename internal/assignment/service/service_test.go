package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"moodlog/internal/assignment/models"
	"moodlog/internal/assignment/service/mocks"
	regmodels "moodlog/internal/register/models"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockStore     *mocks.MockStore
	mockRegisters *mocks.MockRegisters
	mockRoster    *mocks.MockRoster
	mockEntries   *mocks.MockEntryDates
	service       *Service
	ctx           context.Context
	supervisor    id.SupervisorID
	today         id.Date
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockRegisters = mocks.NewMockRegisters(s.ctrl)
	s.mockRoster = mocks.NewMockRoster(s.ctrl)
	s.mockEntries = mocks.NewMockEntryDates(s.ctrl)

	svc, err := New(s.mockStore, s.mockRegisters, s.mockRoster, s.mockEntries)
	s.Require().NoError(err)
	s.service = svc

	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC))
	s.today = id.NewDate(2024, 3, 20)
	s.supervisor = id.SupervisorID(uuid.New())
}

func (s *ServiceSuite) definition() *regmodels.Definition {
	validated, err := schema.Validate(schema.Schema{Fields: []schema.FieldSpec{
		{ID: "mood", Kind: schema.KindBoundedScale, Label: "Mood", Required: true},
	}})
	s.Require().NoError(err)
	d, err := regmodels.NewDefinition(id.DefinitionID(uuid.New()), s.supervisor, "Mood", "", validated, time.Now())
	s.Require().NoError(err)
	return d
}

func (s *ServiceSuite) input(defID id.DefinitionID, subjects ...id.SubjectID) CreateInput {
	return CreateInput{
		DefinitionID: defID,
		SubjectIDs:   subjects,
		Params:       models.Params{Cadence: models.CadenceDaily, StartDate: s.today},
	}
}

func (s *ServiceSuite) TestCreateValidation() {
	subject := id.SubjectID(uuid.New())

	s.Run("definition and template together are rejected", func() {
		in := s.input(id.DefinitionID(uuid.New()), subject)
		in.TemplateID = "mood-diary"
		_, err := s.service.Create(s.ctx, s.supervisor, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("no subjects is rejected", func() {
		_, err := s.service.Create(s.ctx, s.supervisor, s.input(id.DefinitionID(uuid.New())))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("end before start is rejected", func() {
		in := s.input(id.DefinitionID(uuid.New()), subject)
		in.Params.EndDate = s.today.AddDays(-1)
		_, err := s.service.Create(s.ctx, s.supervisor, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestCreate() {
	a, b := id.SubjectID(uuid.New()), id.SubjectID(uuid.New())

	s.Run("one pinned row per subject", func() {
		def := s.definition()
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, []id.SubjectID{a, b}).Return(nil)
		s.mockRegisters.EXPECT().LockForAssignment(gomock.Any(), s.supervisor, def.ID).Return(def, nil)
		s.mockStore.EXPECT().HasActive(gomock.Any(), gomock.Any(), def.ID).Return(false, nil).Times(2)
		s.mockStore.EXPECT().CreateMany(gomock.Any(), gomock.Len(2)).Return(nil)

		rows, err := s.service.Create(s.ctx, s.supervisor, s.input(def.ID, a, b, a))
		s.Require().NoError(err)
		s.Require().Len(rows, 2)
		for _, row := range rows {
			s.Equal(def.ID, row.DefinitionID)
			s.Equal(def.Schema.Version, row.Schema.Version)
			s.True(row.Active)
		}
	})

	s.Run("template is copied before binding", func() {
		def := s.definition()
		def.Provenance = regmodels.ProvenanceFromTemplate
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, []id.SubjectID{a}).Return(nil)
		s.mockRegisters.EXPECT().CopyTemplate(gomock.Any(), s.supervisor, "mood-diary").Return(def, nil)
		s.mockStore.EXPECT().HasActive(gomock.Any(), a, def.ID).Return(false, nil)
		s.mockStore.EXPECT().CreateMany(gomock.Any(), gomock.Len(1)).Return(nil)

		rows, err := s.service.Create(s.ctx, s.supervisor, CreateInput{
			TemplateID: "mood-diary",
			SubjectIDs: []id.SubjectID{a},
			Params:     models.Params{Cadence: models.CadenceWeekly, StartDate: s.today},
		})
		s.Require().NoError(err)
		s.Equal(def.ID, rows[0].DefinitionID)
	})

	s.Run("subject off the roster is forbidden", func() {
		def := s.definition()
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, gomock.Any()).
			Return(dErrors.New(dErrors.CodeForbidden, "not on roster"))

		_, err := s.service.Create(s.ctx, s.supervisor, s.input(def.ID, a))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("retired definition propagates", func() {
		def := s.definition()
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, gomock.Any()).Return(nil)
		s.mockRegisters.EXPECT().LockForAssignment(gomock.Any(), s.supervisor, def.ID).
			Return(nil, dErrors.New(dErrors.CodeConflict, "retired").WithReason(dErrors.ReasonDefinitionRetired))

		_, err := s.service.Create(s.ctx, s.supervisor, s.input(def.ID, a))
		s.True(dErrors.HasReason(err, dErrors.ReasonDefinitionRetired))
	})

	s.Run("existing active pair is a duplicate and nothing is written", func() {
		def := s.definition()
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, gomock.Any()).Return(nil)
		s.mockRegisters.EXPECT().LockForAssignment(gomock.Any(), s.supervisor, def.ID).Return(def, nil)
		s.mockStore.EXPECT().HasActive(gomock.Any(), a, def.ID).Return(false, nil)
		s.mockStore.EXPECT().HasActive(gomock.Any(), b, def.ID).Return(true, nil)

		_, err := s.service.Create(s.ctx, s.supervisor, s.input(def.ID, a, b))
		s.True(dErrors.HasReason(err, dErrors.ReasonDuplicateActiveAssignment))
	})

	s.Run("store conflict maps to duplicate", func() {
		def := s.definition()
		s.mockRoster.EXPECT().RequireOnRoster(gomock.Any(), s.supervisor, gomock.Any()).Return(nil)
		s.mockRegisters.EXPECT().LockForAssignment(gomock.Any(), s.supervisor, def.ID).Return(def, nil)
		s.mockStore.EXPECT().HasActive(gomock.Any(), a, def.ID).Return(false, nil)
		s.mockStore.EXPECT().CreateMany(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Create(s.ctx, s.supervisor, s.input(def.ID, a))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(dErrors.HasReason(err, dErrors.ReasonDuplicateActiveAssignment))
	})
}

func (s *ServiceSuite) assignment(subject id.SubjectID, cadence models.Cadence) *models.Assignment {
	def := s.definition()
	return models.NewAssignment(id.AssignmentID(uuid.New()), def.ID, subject, s.supervisor, def.Schema,
		models.Params{Cadence: cadence, StartDate: s.today.AddDays(-10)}, time.Now())
}

func (s *ServiceSuite) TestDeactivate() {
	subject := id.SubjectID(uuid.New())

	s.Run("owner deactivates", func() {
		a := s.assignment(subject, models.CadenceDaily)
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil)
		s.mockStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		out, err := s.service.Deactivate(s.ctx, s.supervisor, a.ID)
		s.Require().NoError(err)
		s.False(out.Active)
		s.NotNil(out.DeactivatedAt)
	})

	s.Run("second deactivation writes nothing", func() {
		a := s.assignment(subject, models.CadenceDaily)
		a.ApplyDeactivation(time.Now())
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil)

		out, err := s.service.Deactivate(s.ctx, s.supervisor, a.ID)
		s.Require().NoError(err)
		s.False(out.Active)
	})

	s.Run("another supervisor is forbidden", func() {
		a := s.assignment(subject, models.CadenceDaily)
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil)

		_, err := s.service.Deactivate(s.ctx, id.SupervisorID(uuid.New()), a.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown assignment is not found", func() {
		missing := id.AssignmentID(uuid.New())
		s.mockStore.EXPECT().FindByID(gomock.Any(), missing).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Deactivate(s.ctx, s.supervisor, missing)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestReadsCarryStatus() {
	subject := id.SubjectID(uuid.New())

	s.Run("subject list reports due daily assignments", func() {
		daily := s.assignment(subject, models.CadenceDaily)
		weekly := s.assignment(subject, models.CadenceWeekly)
		s.mockStore.EXPECT().ListBySubject(gomock.Any(), subject, true).Return([]*models.Assignment{daily, weekly}, nil)
		s.mockEntries.EXPECT().DatesByAssignment(gomock.Any(), []id.AssignmentID{daily.ID, weekly.ID}).
			Return(map[id.AssignmentID][]id.Date{weekly.ID: {s.today.AddDays(-9)}}, nil)

		views, err := s.service.ListBySubject(s.ctx, subject, true)
		s.Require().NoError(err)
		s.Require().Len(views, 2)
		s.True(views[0].Status.IsDueToday)
		s.True(views[1].Status.IsOverdue)
	})

	s.Run("get is limited to the supervisor and the subject", func() {
		a := s.assignment(subject, models.CadenceAsNeeded)
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil).Times(3)
		s.mockEntries.EXPECT().DatesByAssignment(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

		_, err := s.service.Get(s.ctx, id.UserID(s.supervisor), a.ID)
		s.NoError(err)
		_, err = s.service.Get(s.ctx, id.UserID(subject), a.ID)
		s.NoError(err)
		_, err = s.service.Get(s.ctx, id.UserID(uuid.New()), a.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("supervisor list narrows to one subject", func() {
		mine := s.assignment(subject, models.CadenceDaily)
		other := s.assignment(id.SubjectID(uuid.New()), models.CadenceDaily)
		s.mockStore.EXPECT().ListBySupervisor(gomock.Any(), s.supervisor, false).Return([]*models.Assignment{mine, other}, nil)
		s.mockEntries.EXPECT().DatesByAssignment(gomock.Any(), []id.AssignmentID{mine.ID}).Return(nil, nil)

		views, err := s.service.ListBySupervisor(s.ctx, s.supervisor, subject, false)
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.Equal(mine.ID, views[0].Assignment.ID)
	})
}

func (s *ServiceSuite) TestForSubject() {
	subject := id.SubjectID(uuid.New())
	a := s.assignment(subject, models.CadenceDaily)

	s.Run("other subject's assignment is reported missing", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil)
		_, err := s.service.ForSubject(s.ctx, id.SubjectID(uuid.New()), a.ID)
		s.True(dErrors.HasReason(err, dErrors.ReasonAssignmentNotFound))
	})

	s.Run("own assignment is returned", func() {
		s.mockStore.EXPECT().FindByID(gomock.Any(), a.ID).Return(a, nil)
		got, err := s.service.ForSubject(s.ctx, subject, a.ID)
		s.Require().NoError(err)
		s.Equal(a.ID, got.ID)
	})
}
