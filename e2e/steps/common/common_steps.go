package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context the generic steps need.
type TestContext interface {
	ActAs(alias, role string) error
	Do(ctx context.Context, method, path, body string) error
	Field(path string) (any, error)
	Save(key, value string)
	Expand(s string) (string, error)
	Status() int
	Body() string
}

// RegisterSteps registers identity, request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am supervisor "([^"]*)"$`, steps.actAsSupervisor)
	ctx.Step(`^I am subject "([^"]*)"$`, steps.actAsSubject)

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I DELETE "([^"]*)"$`, steps.delete)
	ctx.Step(`^I POST "([^"]*)" with:$`, steps.post)
	ctx.Step(`^I PUT "([^"]*)" with:$`, steps.put)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response reason should be "([^"]*)"$`, steps.reasonShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, steps.saveField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) actAsSupervisor(alias string) error {
	return s.tc.ActAs(alias, "supervisor")
}

func (s *commonSteps) actAsSubject(alias string) error {
	return s.tc.ActAs(alias, "subject")
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.Do(ctx, http.MethodGet, path, "")
}

func (s *commonSteps) delete(ctx context.Context, path string) error {
	return s.tc.Do(ctx, http.MethodDelete, path, "")
}

func (s *commonSteps) post(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.Do(ctx, http.MethodPost, path, body.Content)
}

func (s *commonSteps) put(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.Do(ctx, http.MethodPut, path, body.Content)
}

func (s *commonSteps) statusShouldBe(expected int) error {
	if s.tc.Status() != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *commonSteps) reasonShouldBe(expected string) error {
	return s.fieldShouldBe("reason", expected)
}

func (s *commonSteps) fieldShouldBe(path, expected string) error {
	want, err := s.tc.Expand(expected)
	if err != nil {
		return err
	}
	got, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("expected %s to be %q, got %q", path, want, fmt.Sprint(got))
	}
	return nil
}

func (s *commonSteps) saveField(path, key string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	s.tc.Save(key, fmt.Sprint(v))
	return nil
}
