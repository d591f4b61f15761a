package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/models"
	"github.com/khedut-saathi/khedut/ui/styles"
)

const (
	EmptyPlaceholder = "No messages yet."
	TypingLabel      = "Typing..."
)

// RenderConversation draws the program banner followed by one block per
// exchange row: the utterance, then its answer or the typing indicator.
func RenderConversation(program []models.Message, rows []exchange.Row, spinnerFrame string, md *Markdown, width int) string {
	var b strings.Builder

	programStyle := styles.ProgramStyle()
	for _, msg := range program {
		b.WriteString(programStyle.Render(msg.Content) + "\n")
	}

	if len(rows) == 0 {
		b.WriteString(styles.PlaceholderStyle().Render(EmptyPlaceholder))
		return b.String()
	}

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	errorStyle := styles.ErrorStyle()
	typingStyle := styles.TypingStyle()

	for _, row := range rows {
		user := userStyle.Render(row.Utterance + " 🧑")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, user) + "\n")

		switch {
		case row.Failed:
			b.WriteString(errorStyle.Render("🤖 "+row.Answer) + "\n")
		case row.HasAnswer:
			b.WriteString(assistantStyle.Render("🤖 "+md.Render(row.Answer)) + "\n")
		case row.Typing:
			b.WriteString(typingStyle.Render(strings.TrimSpace(spinnerFrame+" "+TypingLabel)) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
