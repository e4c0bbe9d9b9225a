package e2e

import (
	"github.com/cucumber/godog"

	"moodlog/e2e/steps/common"
	"moodlog/e2e/steps/logging"
	"moodlog/e2e/steps/onboarding"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	onboarding.RegisterSteps(ctx, tc)
	logging.RegisterSteps(ctx, tc)
}
