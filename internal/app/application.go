package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/channel"
	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/core"
	"github.com/khedut-saathi/khedut/internal/dispatcher"
	"github.com/khedut-saathi/khedut/internal/eventbus"
	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/logging"
	"github.com/khedut-saathi/khedut/internal/models"
	"github.com/khedut-saathi/khedut/internal/session"
	"github.com/khedut-saathi/khedut/internal/update"
	"github.com/khedut-saathi/khedut/ui/components"
	"github.com/khedut-saathi/khedut/ui/styles"
)

const SessionFileName = "session.yaml"

var errNoBackend = errors.New("backend URL is not configured")

func unavailable(ctx context.Context, utterance string) (string, error) {
	return "", errNoBackend
}

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     *zap.Logger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	markdown   *components.Markdown
	logger     *zap.Logger
}

// Collaborators lets callers (and tests) replace what NewApplication would
// otherwise build from the config directory.
type Collaborators struct {
	Channel channel.Channel
	Session *session.Context
	Logger  *zap.Logger
}

func NewApplication(verbose bool) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewApplicationWith(cfg, verbose, Collaborators{})
}

func NewApplicationWith(cfg *config.Config, verbose bool, c Collaborators) (*Application, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	logger := c.Logger
	if logger == nil {
		logger, err = logging.NewFile(dir, verbose)
		if err != nil {
			return nil, err
		}
	}

	sess := session.Default()
	if c.Session != nil {
		sess = *c.Session
	} else if sess, err = session.NewStore(filepath.Join(dir, SessionFileName)).Load(); err != nil {
		// A broken session file only means the user is treated as signed out
		logger.Warn("failed to load session", zap.Error(err))
	}

	policy, err := exchange.ParsePolicy(cfg.GetPolicy())
	if err != nil {
		return nil, err
	}

	ch := c.Channel
	if ch == nil && cfg.IsValid() {
		ch, err = channel.NewHTTPChannel(channel.Options{
			BaseURL: cfg.GetBackendURL(),
			Timeout: cfg.GetTimeout(),
			Session: sess,
			Logger:  logger.Named("channel"),
		})
		if err != nil {
			return nil, err
		}
	}
	ready := ch != nil
	if !ready {
		// Keep the service alive so the UI can still show the welcome banner
		ch = channel.Func(unavailable)
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", zap.String("operation", e.Operation), zap.Error(e.Err))
	})
	disp := dispatcher.NewEventDispatcher(eb)

	chatService, err := core.NewChatService(core.Options{
		Channel:  ch,
		Policy:   policy,
		EventBus: eb,
		Logger:   logger.Named("core"),
		Welcome:  welcomeLines(cfg, policy),
	})
	if err != nil {
		logger.Error("failed to initialize chat service", zap.Error(err))
		return nil, err
	}

	logger.Info("application initialized",
		zap.String("profile", cfg.ActiveProfile),
		zap.String("backend", cfg.GetBackendURL()),
		zap.Duration("timeout", cfg.GetTimeout()),
		zap.Stringer("policy", policy))

	model := &AppModel{
		appModel:   createInitialAppModel(ready, policy, sess),
		dispatcher: disp,
		logger:     logger,
	}

	return &Application{
		config:     cfg,
		logger:     logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.service.Stop()
	app.eventBus.Close()
	_ = app.logger.Sync()
}

func createInitialAppModel(ready bool, policy exchange.Policy, sess session.Context) models.AppModel {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 72
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle()

	status := update.StatusReady
	if !ready {
		status = update.StatusUnavailable
	}

	// No conversation in the UI yet - it comes from core as single source of truth
	return models.AppModel{
		Input:              ti,
		Spinner:            sp,
		Viewport:           viewport.New(80, 20),
		Status:             status,
		ChatServiceReady:   ready,
		SubmitWhilePending: policy != exchange.SingleFlight,
		Session:            sess,
	}
}

func welcomeLines(cfg *config.Config, policy exchange.Policy) []string {
	lines := []string{"-- KHEDUT SAATHI --"}
	if cfg.IsValid() {
		lines = append(lines,
			fmt.Sprintf("Active Profile: %s [OK] -> %s", cfg.ActiveProfile, cfg.GetBackendURL()),
			fmt.Sprintf("Submission policy: %s", policy))
	} else {
		lines = append(lines,
			fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile),
			"• Run: khedut profile add <name>",
			"• Or set KHEDUT_BACKEND")
	}
	return append(lines, "Controls: Enter to send, PgUp/PgDn to scroll, Ctrl+C to exit")
}
