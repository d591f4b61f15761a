package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/channel"
	"github.com/khedut-saathi/khedut/internal/eventbus"
	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/models"
)

// Notices shown to the user when a submission is not sent right away.
const (
	NoticeEmptyInput = "Please type a message before sending."
	NoticeBusy       = "Please wait for the current answer before sending another message."
	NoticeQueued     = "Queued: it will be sent once the current answer arrives."
)

type completion struct {
	id      string
	outcome exchange.Outcome
}

// ChatService owns the exchange log. Every read and write of the log
// happens on the event loop goroutine; channel calls run on their own
// goroutines and hand their results back through completions.
type ChatService struct {
	channel     channel.Channel
	log         *exchange.Log
	eventBus    *eventbus.EventBus
	logger      *zap.Logger
	program     []models.Message
	completions chan completion
	ctx         context.Context
	cancel      context.CancelFunc
	inflight    sync.WaitGroup
	loopDone    chan struct{}
	startOnce   sync.Once
	started     bool
}

type Options struct {
	Channel  channel.Channel
	Policy   exchange.Policy
	EventBus *eventbus.EventBus
	Logger   *zap.Logger
	// Program lines shown above the conversation.
	Welcome []string
}

func NewChatService(opts Options) (*ChatService, error) {
	if opts.Channel == nil {
		return nil, fmt.Errorf("answer channel is required")
	}
	if opts.EventBus == nil {
		return nil, fmt.Errorf("event bus is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	service := &ChatService{
		channel:     opts.Channel,
		log:         exchange.NewLog(opts.Policy),
		eventBus:    opts.EventBus,
		logger:      logger,
		completions: make(chan completion),
		ctx:         ctx,
		cancel:      cancel,
		loopDone:    make(chan struct{}),
	}
	for _, line := range opts.Welcome {
		service.program = append(service.program, models.Message{Content: line, Type: models.Program})
	}
	return service, nil
}

// Start pushes the initial state and runs the event loop in a goroutine
func (cs *ChatService) Start() {
	cs.startOnce.Do(func() {
		cs.started = true
		cs.pushStateToUI()
		go cs.eventLoop()
	})
}

// Stop cancels in-flight requests and waits for every goroutine the
// service started.
func (cs *ChatService) Stop() {
	cs.cancel()
	if cs.started {
		<-cs.loopDone
	}
	cs.inflight.Wait()
}

func (cs *ChatService) eventLoop() {
	defer close(cs.loopDone)
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		case c := <-cs.completions:
			cs.handleCompletion(c)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitEvent:
		cs.submit(e.Text)
	}
}

func (cs *ChatService) submit(text string) {
	ex, err := cs.log.Submit(text)
	switch {
	case errors.Is(err, exchange.ErrEmptyInput):
		cs.sendResult(eventbus.SubmitResultEvent{Kind: exchange.KindEmptyInput, Notice: NoticeEmptyInput, Text: text})
		return
	case errors.Is(err, exchange.ErrBusy):
		cs.logger.Debug("submission refused while pending")
		cs.sendResult(eventbus.SubmitResultEvent{Kind: exchange.KindBusy, Notice: NoticeBusy, Text: text})
		return
	case errors.Is(err, exchange.ErrQueued):
		cs.logger.Debug("submission queued", zap.Int("queued", len(cs.log.Queued())))
		cs.sendResult(eventbus.SubmitResultEvent{Accepted: true, Notice: NoticeQueued})
		cs.pushStateToUI()
		return
	case err != nil:
		cs.logger.Error("unexpected submit error", zap.Error(err))
		cs.sendResult(eventbus.SubmitResultEvent{Notice: err.Error(), Text: text})
		return
	}

	cs.logger.Info("exchange submitted", zap.String("exchange_id", ex.ID), zap.Int("ordinal", ex.Ordinal))
	cs.sendResult(eventbus.SubmitResultEvent{Accepted: true})
	// Show the utterance before the answer channel is consulted
	cs.pushStateToUI()
	cs.dispatch(ex)
}

// dispatch runs the channel call for ex off the loop.
func (cs *ChatService) dispatch(ex exchange.Exchange) {
	cs.inflight.Add(1)
	go func() {
		defer cs.inflight.Done()
		answer, err := cs.channel.Send(cs.ctx, ex.Utterance)
		select {
		case cs.completions <- completion{id: ex.ID, outcome: exchange.Outcome{Answer: answer, Err: err}}:
		case <-cs.ctx.Done():
		}
	}()
}

func (cs *ChatService) handleCompletion(c completion) {
	settled, next, err := cs.log.Resolve(c.id, c.outcome)
	if err != nil {
		cs.logger.Error("failed to settle exchange", zap.String("exchange_id", c.id), zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String("exchange_id", settled.ID),
		zap.Int("ordinal", settled.Ordinal),
		zap.String("status", settled.Status.String()),
		zap.Duration("latency", settled.SettledAt.Sub(settled.SubmittedAt)),
	}
	if settled.Err != nil {
		fields = append(fields, zap.String("kind", exchange.Classify(settled.Err).String()), zap.Error(settled.Err))
		cs.logger.Warn("exchange failed", fields...)
	} else {
		cs.logger.Info("exchange answered", fields...)
	}

	cs.pushStateToUI()
	if next != nil {
		cs.logger.Info("exchange submitted from queue", zap.String("exchange_id", next.ID), zap.Int("ordinal", next.Ordinal))
		cs.dispatch(*next)
	}
}

func (cs *ChatService) sendResult(result eventbus.SubmitResultEvent) {
	if err := cs.eventBus.DeliverToUI(cs.ctx, result); err != nil {
		cs.logger.Warn("failed to send submit result to UI", zap.Error(err))
	}
}

func (cs *ChatService) pushStateToUI() {
	program := make([]models.Message, len(cs.program))
	copy(program, cs.program)

	if err := cs.eventBus.DeliverToUI(cs.ctx, eventbus.StateUpdateEvent{
		Program:   program,
		Exchanges: cs.log.Exchanges(),
		Pending:   cs.log.Pending(),
		Queued:    len(cs.log.Queued()),
	}); err != nil {
		cs.logger.Warn("failed to send state to UI", zap.Error(err))
	}
}
