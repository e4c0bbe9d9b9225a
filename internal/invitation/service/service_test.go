package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"moodlog/internal/invitation/metrics"
	"moodlog/internal/invitation/models"
	"moodlog/internal/invitation/service/mocks"
	"moodlog/internal/notification"
	smodels "moodlog/internal/subject/models"
	id "moodlog/pkg/domain"
	dErrors "moodlog/pkg/domain-errors"
	"moodlog/pkg/platform/sentinel"
	"moodlog/pkg/requestcontext"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// sequence hands out the given codes in order.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockStore  *mocks.MockStore
	mockRoster *mocks.MockRoster
	publisher  *recordingPublisher
	metrics    *metrics.Metrics
	now        time.Time
	ctx        context.Context
	supervisor id.SupervisorID
	subject    id.SubjectID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockRoster = mocks.NewMockRoster(s.ctrl)
	s.publisher = &recordingPublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.supervisor = id.SupervisorID(uuid.New())
	s.subject = id.SubjectID(uuid.New())
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	opts = append([]Option{WithPublisher(s.publisher), WithMetrics(s.metrics)}, opts...)
	svc, err := New(s.mockStore, s.mockRoster, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) TestNew() {
	s.Run("requires a store", func() {
		_, err := New(nil, s.mockRoster)
		s.Require().Error(err)
	})
	s.Run("requires a roster", func() {
		_, err := New(s.mockStore, nil)
		s.Require().Error(err)
	})
}

func (s *ServiceSuite) TestIssue() {
	s.Run("normalizes the email and stores a code valid for the ttl", func() {
		svc := s.newService(WithTTL(48*time.Hour), WithCodeGenerator(sequence("abcd2345")))
		s.mockStore.EXPECT().LockIssuance(gomock.Any(), s.supervisor, "ada@example.com").Return(nil)
		s.mockStore.EXPECT().FindActiveByEmail(gomock.Any(), s.supervisor, "ada@example.com", s.now).Return(nil, sentinel.ErrNotFound)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		inv, err := svc.Issue(s.ctx, s.supervisor, "  Ada@Example.COM ")
		s.Require().NoError(err)
		s.Equal("ABCD2345", inv.Code)
		s.Equal("ada@example.com", inv.Email)
		s.Equal(s.now.Add(48*time.Hour), inv.ExpiresAt)
		s.Equal(models.StatusPending, inv.Status(s.now))

		s.Require().Len(s.publisher.events, 1)
		ev := s.publisher.events[0]
		s.Equal(notification.KindInvitationIssued, ev.Kind)
		s.Equal(s.supervisor.String(), ev.SupervisorID)
		s.Equal(inv.ID.String(), ev.Attributes["invitation_id"])
		s.Equal(1.0, promtest.ToFloat64(s.metrics.InvitationsIssued))
	})

	s.Run("rejects an implausible email before touching the store", func() {
		svc := s.newService()
		_, err := svc.Issue(s.ctx, s.supervisor, "not an email")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("refuses a second active code for the same pair", func() {
		svc := s.newService()
		existing := models.NewInvitation(id.InvitationID(uuid.New()), s.supervisor, "ZZZZZZZZ", "ada@example.com", DefaultTTL, s.now)
		s.mockStore.EXPECT().LockIssuance(gomock.Any(), s.supervisor, "ada@example.com").Return(nil)
		s.mockStore.EXPECT().FindActiveByEmail(gomock.Any(), s.supervisor, "ada@example.com", s.now).Return(existing, nil)

		_, err := svc.Issue(s.ctx, s.supervisor, "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(dErrors.HasReason(err, dErrors.ReasonDuplicateActiveInvitation))
	})

	s.Run("retries on a code collision", func() {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		svc := s.newService(WithMetrics(m), WithCodeGenerator(sequence("AAAAAAAA", "BBBBBBBB")))
		s.mockStore.EXPECT().LockIssuance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		s.mockStore.EXPECT().FindActiveByEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		gomock.InOrder(
			s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict),
			s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		)

		inv, err := svc.Issue(s.ctx, s.supervisor, "ada@example.com")
		s.Require().NoError(err)
		s.Equal("BBBBBBBB", inv.Code)
		s.Equal(1.0, promtest.ToFloat64(m.CodeCollisions))
	})

	s.Run("gives up after the bounded number of attempts", func() {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		svc := s.newService(WithMetrics(m), WithCodeGenerator(sequence("AAAAAAAA")))
		s.mockStore.EXPECT().LockIssuance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		s.mockStore.EXPECT().FindActiveByEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict).Times(maxCodeAttempts)

		_, err := svc.Issue(s.ctx, s.supervisor, "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeExhausted))
		s.True(dErrors.HasReason(err, dErrors.ReasonCodeSpaceExhausted))
		s.Equal(1.0, promtest.ToFloat64(m.CodeSpaceExhausted))
		s.Equal(float64(maxCodeAttempts), promtest.ToFloat64(m.CodeCollisions))
	})

	s.Run("wraps store failures as internal", func() {
		svc := s.newService()
		s.mockStore.EXPECT().LockIssuance(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := svc.Issue(s.ctx, s.supervisor, "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) pending(code, email string, expiresAt time.Time) *models.Invitation {
	return models.NewInvitation(id.InvitationID(uuid.New()), s.supervisor, code, email, DefaultTTL, expiresAt.Add(-DefaultTTL))
}

func (s *ServiceSuite) TestRedeem() {
	s.Run("enrolls the subject and marks the code used", func() {
		svc := s.newService()
		inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(time.Hour))
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ABCD2345").Return(inv, nil)
		s.mockRoster.EXPECT().Enroll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, sub *smodels.Subject) error {
			s.Equal(s.subject, sub.ID)
			s.Equal(s.supervisor, sub.SupervisorID)
			s.Equal(inv.ID, sub.InvitationID)
			s.Equal("ada@example.com", sub.Email)
			return nil
		})
		s.mockStore.EXPECT().MarkUsed(gomock.Any(), inv.ID, s.subject, s.now).Return(nil)

		got, err := svc.Redeem(s.ctx, s.subject, " abcd 2345 ", "ADA@example.com ")
		s.Require().NoError(err)
		s.True(got.IsUsed())
		s.Equal(s.subject, got.SubjectID)
	})

	s.Run("unknown code", func() {
		svc := s.newService()
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ZZZZZZZZ").Return(nil, sentinel.ErrNotFound)

		_, err := svc.Redeem(s.ctx, s.subject, "zzzzzzzz", "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidOrUsedCode))
	})

	s.Run("email mismatch reads as an invalid code", func() {
		svc := s.newService()
		inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(time.Hour))
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ABCD2345").Return(inv, nil)

		_, err := svc.Redeem(s.ctx, s.subject, "ABCD2345", "grace@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidOrUsedCode))
	})

	s.Run("expired code", func() {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		svc := s.newService(WithMetrics(m))
		inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(-time.Second))
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ABCD2345").Return(inv, nil)

		_, err := svc.Redeem(s.ctx, s.subject, "ABCD2345", "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(dErrors.HasReason(err, dErrors.ReasonExpired))
		s.Equal(1.0, promtest.ToFloat64(m.RedeemRejected.WithLabelValues(string(dErrors.ReasonExpired))))
	})

	s.Run("losing the mark-used race", func() {
		svc := s.newService()
		inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(time.Hour))
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ABCD2345").Return(inv, nil)
		s.mockRoster.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(nil)
		s.mockStore.EXPECT().MarkUsed(gomock.Any(), inv.ID, s.subject, s.now).Return(sentinel.ErrConflict)

		_, err := svc.Redeem(s.ctx, s.subject, "ABCD2345", "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidOrUsedCode))
	})

	s.Run("roster refusal leaves the code unused", func() {
		svc := s.newService()
		inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(time.Hour))
		s.mockStore.EXPECT().FindUnusedByCode(gomock.Any(), "ABCD2345").Return(inv, nil)
		s.mockRoster.EXPECT().Enroll(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeConflict, "subject is already on a roster"))

		_, err := svc.Redeem(s.ctx, s.subject, "ABCD2345", "ada@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("blank input", func() {
		svc := s.newService()
		_, err := svc.Redeem(s.ctx, s.subject, "   ", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Len(de.Fields, 2)
	})
}

func (s *ServiceSuite) TestListBySupervisor() {
	svc := s.newService()
	inv := s.pending("ABCD2345", "ada@example.com", s.now.Add(time.Hour))
	s.mockStore.EXPECT().ListBySupervisor(gomock.Any(), s.supervisor).Return([]*models.Invitation{inv}, nil)

	got, err := svc.ListBySupervisor(s.ctx, s.supervisor)
	s.Require().NoError(err)
	s.Len(got, 1)
}
