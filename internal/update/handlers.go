package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/khedut-saathi/khedut/internal/eventbus"
	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/models"
)

const (
	StatusReady       = "Ready"
	StatusSending     = "Sending..."
	StatusUnavailable = "Chat service not available"
)

// Rows taken by everything except the conversation viewport.
const chromeHeight = 7

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}

	// A notice blocks input until the user acknowledges it
	if appModel.Notice != "" {
		switch keyMsg.String() {
		case "enter", "esc":
			appModel.Notice = ""
		}
		return nil
	}

	switch keyMsg.String() {
	case "enter":
		// One submission at a time; the submit control is also disabled
		// while an answer is pending
		if appModel.Submitting || (appModel.Pending && !appModel.SubmitWhilePending) {
			return nil
		}
		if !chatReady {
			appModel.Status = StatusUnavailable
			return nil
		}
		text := appModel.Input.Value()
		appModel.Input.Reset()
		// Core decides whether the text is admitted and replies with a SubmitResultEvent
		if err := eb.SendToCore(eventbus.SubmitEvent{Text: text}); err != nil {
			appModel.Input.SetValue(text)
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		appModel.Submitting = true
		return nil
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		appModel.Viewport, cmd = appModel.Viewport.Update(keyMsg)
		return cmd
	}

	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(keyMsg)
	return cmd
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		wasPending := appModel.Pending

		appModel.Program = event.Program
		appModel.Rows = exchange.Project(event.Exchanges)
		appModel.Pending = event.Pending
		appModel.Queued = event.Queued
		appModel.Status = statusLine(event.Pending, event.Queued)
		if !appModel.ChatServiceReady {
			appModel.Status = StatusUnavailable
		}

		// Start animating the typing indicator
		if event.Pending && !wasPending {
			return appModel.Spinner.Tick
		}

	case eventbus.SubmitResultEvent:
		appModel.Submitting = false
		if event.Accepted {
			if event.Notice != "" {
				appModel.Status = event.Notice
			}
			return nil
		}
		appModel.Notice = event.Notice
		// Give the rejected text back unless the user already typed something new
		if appModel.Input.Value() == "" {
			appModel.Input.SetValue(event.Text)
		}
	}

	return nil
}

func statusLine(pending bool, queued int) string {
	status := StatusReady
	if pending {
		status = StatusSending
	}
	if queued > 0 {
		status += fmt.Sprintf(" (%d queued)", queued)
	}
	return status
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	appModel.Input.Width = max(sizeMsg.Width-8, 10)
	appModel.Viewport.Width = sizeMsg.Width
	appModel.Viewport.Height = max(sizeMsg.Height-chromeHeight, 3)
}

// HandleSpinnerTick advances the typing indicator; ticking stops once
// nothing is pending.
func HandleSpinnerTick(appModel *models.AppModel, tick spinner.TickMsg) tea.Cmd {
	if !appModel.Pending {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(tick)
	return cmd
}
