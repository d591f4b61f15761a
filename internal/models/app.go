package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/session"
)

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Program  []Message      // Banner lines from core
	Rows     []exchange.Row // Projection of the exchange log
	Input    textinput.Model
	Spinner  spinner.Model
	Viewport viewport.Model
	Status   string
	Notice   string // Blocking notice; input is ignored until dismissed
	Pending  bool   // An exchange is awaiting its answer
	// Submitting is set from Enter until core answers with a SubmitResultEvent.
	Submitting bool
	// SubmitWhilePending is set when the admission policy accepts or queues
	// submissions made while an answer is pending.
	SubmitWhilePending bool
	Queued             int
	Width              int
	Height             int
	ChatServiceReady   bool
	Session            session.Context
}
