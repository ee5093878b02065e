package models

// Step is the session's position in the intake → assessment → partition →
// presentation → confirmation flow.
type Step string

const (
	StepWelcome      Step = "welcome"
	StepIntake       Step = "intake"
	StepAssessment   Step = "assessment"
	StepDistributing Step = "distributing"
	StepPresenting   Step = "presenting"
	StepDashboard    Step = "dashboard"
)

// Intent is an operator or scheduler action that may move the session.
type Intent string

const (
	IntentBeginIntake        Intent = "begin_intake"
	IntentSubmitIntake       Intent = "submit_intake"
	IntentAnswer             Intent = "answer"
	IntentCompleteAssessment Intent = "complete_assessment"
	IntentReveal             Intent = "reveal"
	IntentShowResults        Intent = "show_results"
	IntentOpenDashboard      Intent = "open_dashboard"
	IntentBack               Intent = "back"
	IntentAbandon            Intent = "abandon"
	IntentFinalize           Intent = "finalize"
)

// transitions is the complete step graph. Anything absent is illegal.
var transitions = map[Step]map[Intent]Step{
	StepWelcome: {
		IntentBeginIntake:   StepIntake,
		IntentOpenDashboard: StepDashboard,
	},
	StepIntake: {
		IntentSubmitIntake: StepAssessment,
		IntentBack:         StepWelcome,
		IntentAbandon:      StepWelcome,
	},
	StepAssessment: {
		IntentAnswer:             StepAssessment,
		IntentCompleteAssessment: StepDistributing,
		IntentAbandon:            StepWelcome,
	},
	StepDistributing: {
		IntentReveal:  StepPresenting,
		IntentAbandon: StepWelcome,
	},
	StepPresenting: {
		IntentBeginIntake:   StepIntake,
		IntentOpenDashboard: StepDashboard,
	},
	StepDashboard: {
		IntentShowResults: StepPresenting,
		IntentBack:        StepWelcome,
		IntentFinalize:    StepDashboard,
	},
}

// IsValid reports whether s is a known step.
func (s Step) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Next returns the step reached by intent, or false when the intent is not
// allowed from s.
func (s Step) Next(intent Intent) (Step, bool) {
	to, ok := transitions[s][intent]
	return to, ok
}

// CanTransitionTo reports whether any intent leads from s to target.
func (s Step) CanTransitionTo(target Step) bool {
	for _, to := range transitions[s] {
		if to == target {
			return true
		}
	}
	return false
}

// Intents lists the intents accepted from s, for renderers that want to
// enable or disable controls.
func (s Step) Intents() []Intent {
	out := make([]Intent, 0, len(transitions[s]))
	for _, intent := range intentOrder {
		if _, ok := transitions[s][intent]; ok {
			out = append(out, intent)
		}
	}
	return out
}

var intentOrder = []Intent{
	IntentBeginIntake,
	IntentSubmitIntake,
	IntentAnswer,
	IntentCompleteAssessment,
	IntentReveal,
	IntentShowResults,
	IntentOpenDashboard,
	IntentBack,
	IntentAbandon,
	IntentFinalize,
}

func (s Step) String() string { return string(s) }
