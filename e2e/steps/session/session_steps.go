package session

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GetStatusCode() int
	GetResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	GetOperatorToken() string
}

// RegisterSteps registers session flow step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	// Respondent flow
	ctx.Step(`^I begin intake$`, steps.beginIntake)
	ctx.Step(`^I submit intake for "([^"]*)" with categories "([^"]*)" and "([^"]*)"$`, steps.submitIntake)
	ctx.Step(`^I answer every question with weight (\d+)$`, steps.answerAll)
	ctx.Step(`^I answer with weight (-?\d+)$`, steps.answer)
	ctx.Step(`^"([^"]*)" completes the assessment with weight (\d+)$`, steps.completeAssessment)
	ctx.Step(`^I abandon the session$`, steps.abandon)
	ctx.Step(`^I return to the welcome screen$`, steps.returnToWelcome)

	// Operator flow
	ctx.Step(`^I open the dashboard$`, steps.openDashboard)
	ctx.Step(`^I finalize as operator$`, steps.finalizeAsOperator)
	ctx.Step(`^I finalize without a token$`, steps.finalizeWithoutToken)

	// Assertions
	ctx.Step(`^the session step should be "([^"]*)"$`, steps.stepShouldBe)
	ctx.Step(`^the roster should have (\d+) members?$`, steps.rosterShouldHave)
	ctx.Step(`^the groups should have sizes (\d+(?:,\d+)*) in any order$`, steps.groupSizesShouldBe)
}

type sessionSteps struct {
	tc TestContext
}

func (s *sessionSteps) expectOK(action string) error {
	if s.tc.GetStatusCode() != 200 {
		return fmt.Errorf("%s failed with %d: %s", action, s.tc.GetStatusCode(), string(s.tc.GetResponseBody()))
	}
	return nil
}

func (s *sessionSteps) beginIntake(ctx context.Context) error {
	return s.tc.POST("/session/intake/begin", nil)
}

func (s *sessionSteps) submitIntake(ctx context.Context, name, primary, secondary string) error {
	return s.tc.POST("/session/intake", map[string]string{
		"name":               name,
		"primary_category":   primary,
		"secondary_category": secondary,
	})
}

func (s *sessionSteps) answer(ctx context.Context, weight int) error {
	return s.tc.POST("/session/answers", map[string]int{"weight": weight})
}

func (s *sessionSteps) answerAll(ctx context.Context, weight int) error {
	total, err := s.questionCount()
	if err != nil {
		return err
	}
	for i := 0; i < total; i++ {
		if err := s.answer(ctx, weight); err != nil {
			return err
		}
		if err := s.expectOK(fmt.Sprintf("answer %d", i+1)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionSteps) completeAssessment(ctx context.Context, name string, weight int) error {
	if err := s.beginIntake(ctx); err != nil {
		return err
	}
	if err := s.expectOK("begin intake"); err != nil {
		return err
	}
	if err := s.submitIntake(ctx, name, "it", "education_research"); err != nil {
		return err
	}
	if err := s.expectOK("submit intake"); err != nil {
		return err
	}
	return s.answerAll(ctx, weight)
}

func (s *sessionSteps) questionCount() (int, error) {
	if err := s.tc.GET("/session/questions", nil); err != nil {
		return 0, err
	}
	v, err := s.tc.GetResponseField("total")
	if err != nil {
		return 0, err
	}
	total, ok := v.(float64)
	if !ok || total <= 0 {
		return 0, fmt.Errorf("unexpected question total: %v", v)
	}
	return int(total), nil
}

func (s *sessionSteps) abandon(ctx context.Context) error {
	return s.tc.POST("/session/abandon", nil)
}

func (s *sessionSteps) returnToWelcome(ctx context.Context) error {
	if err := s.tc.POST("/session/welcome", nil); err != nil {
		return err
	}
	return s.expectOK("return to welcome")
}

func (s *sessionSteps) openDashboard(ctx context.Context) error {
	return s.tc.POST("/session/dashboard", nil)
}

func (s *sessionSteps) finalizeAsOperator(ctx context.Context) error {
	token := s.tc.GetOperatorToken()
	if token == "" {
		return godog.ErrPending
	}
	return s.tc.POSTWithHeaders("/session/finalize", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func (s *sessionSteps) finalizeWithoutToken(ctx context.Context) error {
	return s.tc.POST("/session/finalize", nil)
}

func (s *sessionSteps) stepShouldBe(ctx context.Context, expected string) error {
	if err := s.tc.GET("/session", nil); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("step")
	if err != nil {
		return err
	}
	if v != expected {
		return fmt.Errorf("expected step %q, got %v", expected, v)
	}
	return nil
}

func (s *sessionSteps) rosterShouldHave(ctx context.Context, n int) error {
	if err := s.tc.GET("/session", nil); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("roster")
	if err != nil {
		return err
	}
	roster, _ := v.([]interface{})
	if len(roster) != n {
		return fmt.Errorf("expected %d roster members, got %d", n, len(roster))
	}
	return nil
}

func (s *sessionSteps) groupSizesShouldBe(ctx context.Context, csv string) error {
	var want []int
	for _, part := range splitComma(csv) {
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil {
			return err
		}
		want = append(want, n)
	}

	if err := s.tc.GET("/session", nil); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("groups")
	if err != nil {
		return err
	}
	groups, _ := v.([]interface{})
	counts := map[int]int{}
	for _, g := range groups {
		group, _ := g.(map[string]interface{})
		members, _ := group["members"].([]interface{})
		counts[len(members)]++
	}
	for _, n := range want {
		counts[n]--
	}
	for size, c := range counts {
		if c != 0 {
			return fmt.Errorf("group sizes mismatch at size %d (want %v)", size, want)
		}
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
