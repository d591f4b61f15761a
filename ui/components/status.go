package components

import (
	"github.com/khedut-saathi/khedut/internal/session"
	"github.com/khedut-saathi/khedut/ui/styles"
)

const Title = "Khedut Saathi"

func RenderHeader(sess session.Context, width int) string {
	return styles.HeaderStyle(width).Render(Title) + "\n" +
		styles.SubHeaderStyle(width).Render(sess.Greeting())
}

func RenderStatus(status string, width int) string {
	return styles.StatusStyle(width).Render(status)
}

// RenderNotice draws a blocking notice, or nothing.
func RenderNotice(notice string, width int) string {
	if notice == "" {
		return ""
	}
	return styles.NoticeStyle(width).Render(notice + "  [enter/esc to dismiss]")
}
