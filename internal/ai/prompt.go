package ai

import (
	"fmt"
	"rental-autotest/internal/vocabulary"
	"strings"
)

const (
	promptIntro = `You are a task instruction generator for car rental automation testing.

Your job is to convert the user's natural language prompt into a strict JSON instruction based on the intent.

Use only one of the following formats:`

	promptOutro = `Now read the user's instruction below and reply **only** with a valid JSON object matching one of the above formats. Do not add any explanation or comments.

If dates or car type are not mentioned, you can use default values.`
)

// SystemPrompt lists every vocabulary entry as a numbered example.
func SystemPrompt() string {
	var b strings.Builder

	b.WriteString(promptIntro)
	b.WriteString("\n\n")

	for i, e := range vocabulary.Entries() {
		fmt.Fprintf(&b, "%d. For %s:\n%s\n\n", i+1, e.Purpose, e.Example)
	}

	b.WriteString(promptOutro)

	return b.String()
}

func userMessage(instruction string) string {
	return "User Instruction: " + instruction
}
