package onboarding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

type TestContext interface {
	ActAs(alias, role string) error
	Do(ctx context.Context, method, path, body string) error
	Field(path string) (any, error)
	Save(key, value string)
	Status() int
	Body() string
}

// RegisterSteps registers the invitation round trip as single steps so other
// features can start from an enrolled subject.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &onboardingSteps{tc: tc}

	ctx.Step(`^supervisor "([^"]*)" invites "([^"]*)"$`, steps.invite)
	ctx.Step(`^subject "([^"]*)" redeems the code for "([^"]*)"$`, steps.redeem)
	ctx.Step(`^subject "([^"]*)" is enrolled with supervisor "([^"]*)"$`, steps.enroll)
}

type onboardingSteps struct {
	tc TestContext
}

func (s *onboardingSteps) invite(ctx context.Context, supervisor, email string) error {
	if err := s.tc.ActAs(supervisor, "supervisor"); err != nil {
		return err
	}
	if err := s.tc.Do(ctx, http.MethodPost, "/invitations", fmt.Sprintf(`{"email":%q}`, email)); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusCreated {
		return fmt.Errorf("issue invitation: status %d: %s", s.tc.Status(), s.tc.Body())
	}
	code, err := s.tc.Field("code")
	if err != nil {
		return err
	}
	s.tc.Save("code:"+email, fmt.Sprint(code))
	return nil
}

func (s *onboardingSteps) redeem(ctx context.Context, subject, email string) error {
	if err := s.tc.ActAs(subject, "subject"); err != nil {
		return err
	}
	return s.tc.Do(ctx, http.MethodPost, "/invitations/redeem",
		fmt.Sprintf(`{"code":"{{code:%s}}","email":%q}`, email, email))
}

func (s *onboardingSteps) enroll(ctx context.Context, subject, supervisor string) error {
	email := subject + "@example.com"
	if err := s.invite(ctx, supervisor, email); err != nil {
		return err
	}
	if err := s.redeem(ctx, subject, email); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("redeem invitation: status %d: %s", s.tc.Status(), s.tc.Body())
	}
	return nil
}
