package logging

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

// RegisterSteps registers steps that set up a register and log entries against it.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &loggingSteps{tc: tc}

	ctx.Step(`^supervisor "([^"]*)" assigns a daily mood register to "([^"]*)"$`, steps.assignMoodRegister)
	ctx.Step(`^subject "([^"]*)" logs mood (\d+) on "([^"]*)"$`, steps.logMood)
}

type loggingSteps struct {
	tc TestContext
}

const moodRegister = `{
	"name": "Mood check-in",
	"fields": [
		{"id": "mood", "kind": "bounded-scale", "label": "Mood", "required": true, "min": 0, "max": 10},
		{"id": "note", "kind": "short-text", "label": "Note"}
	]
}`

func (s *loggingSteps) assignMoodRegister(ctx context.Context, supervisor, subject string) error {
	if err := s.tc.ActAs(supervisor, "supervisor"); err != nil {
		return err
	}
	if err := s.expect(ctx, http.MethodPost, "/registers", moodRegister, http.StatusCreated); err != nil {
		return err
	}
	defID, err := s.tc.Field("id")
	if err != nil {
		return err
	}

	body := fmt.Sprintf(`{"definition_id":%q,"subject_ids":["{{id:%s}}"],"cadence":"daily","start_date":"{{today-30}}"}`, defID, subject)
	if err := s.expect(ctx, http.MethodPost, "/assignments", body, http.StatusCreated); err != nil {
		return err
	}
	assignmentID, err := s.tc.Field("assignments.0.id")
	if err != nil {
		return err
	}
	s.tc.Save("assignment", fmt.Sprint(assignmentID))
	return nil
}

func (s *loggingSteps) logMood(ctx context.Context, subject string, mood int, day string) error {
	if err := s.tc.ActAs(subject, "subject"); err != nil {
		return err
	}
	body := fmt.Sprintf(`{"assignment_id":"{{assignment}}","data":{"mood":%d},"entry_date":"{{%s}}"}`, mood, day)
	return s.expect(ctx, http.MethodPost, "/entries", body, http.StatusCreated)
}

func (s *loggingSteps) expect(ctx context.Context, method, path, body string, status int) error {
	if err := s.tc.Do(ctx, method, path, body); err != nil {
		return err
	}
	if s.tc.Status() != status {
		return fmt.Errorf("%s %s: expected %d, got %d: %s", method, path, status, s.tc.Status(), s.tc.Body())
	}
	return nil
}
