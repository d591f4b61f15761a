package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/khedut-saathi/khedut/ui/styles"
)

func RenderInput(input textinput.Model, pending bool, width int) string {
	if pending {
		return styles.DisabledInputStyle(width).Render(input.View())
	}
	return styles.InputStyle(width).Render(input.View())
}
