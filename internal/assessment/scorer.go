package assessment

import (
	"fmt"

	"teamsort/internal/domain"
	dErrors "teamsort/pkg/domain-errors"
)

// AxisPriority is the tie-break order applied when several axes share the
// maximum total. Earlier entries win.
var AxisPriority = domain.Traits

// ValidateWeight is the boundary check run before a weight reaches an
// Accumulator.
func ValidateWeight(weight int) error {
	if weight < MinWeight || weight > MaxWeight {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("answer weight must be between %d and %d", MinWeight, MaxWeight))
	}
	return nil
}

// Accumulator collects answers for one assessment run. Create one per run.
type Accumulator struct {
	bank   Bank
	next   int
	scores domain.Scores
}

// NewAccumulator starts a fresh run over bank.
func NewAccumulator(bank Bank) *Accumulator {
	return &Accumulator{bank: bank}
}

// Current returns the question awaiting an answer.
func (a *Accumulator) Current() (Question, bool) {
	return a.bank.At(a.next)
}

// Answered is how many answers have been recorded.
func (a *Accumulator) Answered() int { return a.next }

// Remaining is how many answers are still needed.
func (a *Accumulator) Remaining() int { return a.bank.Len() - a.next }

// Done reports whether every question has been answered.
func (a *Accumulator) Done() bool { return a.next >= a.bank.Len() }

// Record adds weight to the current question's axis and advances. Recording
// past the last question is ignored and returns the zero Answer.
func (a *Accumulator) Record(weight int) Answer {
	q, ok := a.Current()
	if !ok {
		return Answer{}
	}
	a.scores = a.scores.Add(q.Axis, weight)
	a.next++
	return Answer{QuestionID: q.ID, Axis: q.Axis, Weight: weight}
}

// Scores returns the running totals.
func (a *Accumulator) Scores() domain.Scores { return a.scores }

// Result derives the trait label from the running totals.
func (a *Accumulator) Result() Result {
	return Result{Trait: a.scores.Dominant(), Scores: a.scores}
}

// Score runs a whole assessment in one call. weights[i] answers question i;
// extra weights are ignored and missing ones contribute nothing.
func Score(bank Bank, weights []int) Result {
	acc := NewAccumulator(bank)
	for _, w := range weights {
		if acc.Done() {
			break
		}
		acc.Record(w)
	}
	return acc.Result()
}
