package models

import (
	"fmt"

	"teamsort/internal/domain"
)

// Narration returns the lines shown, in order, while an individual is being
// distributed.
func Narration(ident domain.Identity) []string {
	return []string{
		"Hmm... an interesting one.",
		fmt.Sprintf("%s... a type %s, I see...", ident.Name, ident.Trait),
		fmt.Sprintf("Drawn to %s... hmm...", ident.PrimaryCategory.Label()),
		"Which group would suit best?",
		"For a well-balanced line-up...",
		"Aha! I have decided!",
	}
}
