package prompt

import (
	"strings"

	"aichat/internal/domain/models"
)

// Flatten renders a conversation as the single prompt string sent to
// plain-completion endpoints: the instruction (followed by a newline, when
// non-empty), the prior message contents joined by newlines, a newline, then
// the new message.
func Flatten(history []models.Message, newMessage, instruction string) string {
	var b strings.Builder
	if instruction != "" {
		b.WriteString(instruction)
		b.WriteString("\n")
	}
	contents := make([]string, len(history))
	for i, m := range history {
		contents[i] = m.Content
	}
	b.WriteString(strings.Join(contents, "\n"))
	b.WriteString("\n")
	b.WriteString(newMessage)
	return b.String()
}
