package assessment

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultBankYAML []byte

// DefaultBank returns the built-in 20-question bank.
func DefaultBank() Bank {
	bank, err := ParseBank(defaultBankYAML)
	if err != nil {
		panic(fmt.Sprintf("assessment: embedded question bank is invalid: %v", err))
	}
	return bank
}

// LoadBank reads a question bank from a YAML file. An empty path yields the
// default bank.
func LoadBank(path string) (Bank, error) {
	if path == "" {
		return DefaultBank(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("assessment: read question bank: %w", err)
	}
	return ParseBank(raw)
}

// ParseBank decodes and validates a YAML question bank.
func ParseBank(raw []byte) (Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return Bank{}, fmt.Errorf("assessment: decode question bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return Bank{}, err
	}
	return bank, nil
}

// Validate checks that the bank is usable: non-empty, unique ids, a prompt
// per question and a known axis tag.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("assessment: question bank is empty")
	}
	seen := make(map[int]struct{}, len(b.Questions))
	for i, q := range b.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("assessment: duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Prompt == "" {
			return fmt.Errorf("assessment: question %d has no prompt", q.ID)
		}
		if !q.Axis.IsValid() {
			return fmt.Errorf("assessment: question at position %d has unknown axis %q", i, q.Axis)
		}
	}
	return nil
}
