package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/models"
	"github.com/khedut-saathi/khedut/internal/session"
)

func TestRenderConversation_Empty(t *testing.T) {
	out := RenderConversation([]models.Message{{Content: "-- KHEDUT SAATHI --", Type: models.Program}}, nil, "", nil, 80)
	assert.Contains(t, out, "-- KHEDUT SAATHI --")
	assert.Contains(t, out, EmptyPlaceholder)
}

func TestRenderConversation_Rows(t *testing.T) {
	rows := []exchange.Row{
		{Ordinal: 0, Utterance: "hello", Answer: "hi there", HasAnswer: true},
		{Ordinal: 1, Utterance: "price?", Answer: exchange.FailedResponseAnswer, HasAnswer: true, Failed: true},
		{Ordinal: 2, Utterance: "ping", Typing: true},
	}

	out := RenderConversation(nil, rows, "*", nil, 80)

	assert.NotContains(t, out, EmptyPlaceholder)
	for _, want := range []string{"hello", "hi there", "price?", exchange.FailedResponseAnswer, "ping", TypingLabel} {
		assert.Contains(t, out, want)
	}
	// Utterances come before their answers and in ordinal order.
	assert.Less(t, strings.Index(out, "hello"), strings.Index(out, "hi there"))
	assert.Less(t, strings.Index(out, "hi there"), strings.Index(out, "price?"))
	assert.Less(t, strings.Index(out, "ping"), strings.Index(out, TypingLabel))
	assert.Equal(t, 1, strings.Count(out, TypingLabel))
}

func TestMarkdown_NilRendersPlain(t *testing.T) {
	var md *Markdown
	assert.Equal(t, "**bold**", md.Render("**bold**"))
}

func TestRenderNotice(t *testing.T) {
	assert.Empty(t, RenderNotice("", 80))
	assert.Contains(t, RenderNotice("Please type a message before sending.", 80), "Please type a message")
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(session.Context{Name: "Asha", Authenticated: true, Role: session.RoleBusinessman}, 60)
	assert.Contains(t, out, Title)
	assert.Contains(t, out, "Asha (buyer)")
}
