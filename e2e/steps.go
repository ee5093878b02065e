package e2e

import (
	"github.com/cucumber/godog"

	"teamsort/e2e/steps/common"
	"teamsort/e2e/steps/session"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register session flow steps
	session.RegisterSteps(ctx, tc)
}
