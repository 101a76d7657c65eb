package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	emailAdapter "churchsite/internal/adapters/email"
	emailDomain "churchsite/internal/domain/email"
	domain "churchsite/internal/domain/outbox"
)

// OutboxStore defines the store interface needed by the outbox processor.
type OutboxStore interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor performs one kind of outbox action.
type ActionExecutor interface {
	// Execute runs the action and returns the provider's id for it.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxProcessor delivers queued side effects with exponential backoff.
type OutboxProcessor struct {
	store     OutboxStore
	executors map[string]ActionExecutor
	now       func() time.Time
	backoff   domain.Backoff
	batchSize int
}

// NewOutboxProcessor creates a processor with 30s..1h backoff.
func NewOutboxProcessor(store OutboxStore, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		now:       now,
		backoff:   domain.DefaultBackoff,
		batchSize: 25,
	}
}

// ProcessPending attempts every due pending entry once.
// POST: each attempted entry is saved with its new status; returns how many were attempted
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}

	attempted := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return attempted, ctx.Err()
		}
		if !entry.IsDue(p.now(), p.backoff) {
			continue
		}
		attempted++
		if err := p.attempt(ctx, entry); err != nil {
			log.Error().Err(err).Str("entry_id", entry.ID).Str("action_type", entry.ActionType).Msg("outbox_process_failed")
		}
	}
	return attempted, nil
}

// ProcessSingle attempts one entry immediately, ignoring backoff (admin retry).
// PRE: entry is not terminal
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.IsTerminal() {
		return entry, fmt.Errorf("entry %s is %s and cannot be retried", entryID, entry.Status)
	}
	if err := p.attempt(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry stops delivery of an entry.
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if err := entry.MarkAbandoned(); err != nil {
		return err
	}
	log.Info().Str("entry_id", entry.ID).Msg("outbox_entry_abandoned")
	return p.store.Save(ctx, entry)
}

// Run processes the outbox every interval until ctx is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if _, err := p.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("outbox_tick_failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry domain.Entry) error {
	entry.MarkAttempt(p.now())

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.Attempts = entry.MaxAttempts
		entry.MarkFailed(fmt.Errorf("no executor registered for action type %q", entry.ActionType))
		return p.store.Save(ctx, entry)
	}

	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		log.Warn().Err(err).Str("entry_id", entry.ID).Int("attempt", entry.Attempts).Msg("outbox_action_failed")
	} else {
		entry.MarkSuccess(externalID)
		log.Info().Str("entry_id", entry.ID).Str("action_type", entry.ActionType).Str("external_id", externalID).Msg("outbox_action_succeeded")
	}
	return p.store.Save(ctx, entry)
}

// EmailExecutor delivers outbox email payloads through a Sender.
type EmailExecutor struct {
	Sender emailAdapter.Sender
}

// Execute decodes and sends the message.
// PRE: payload was produced by emailDomain.Message.Encode
func (e EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	msg, err := emailDomain.Decode(payload)
	if err != nil {
		return "", fmt.Errorf("decode email payload: %w", err)
	}
	res, err := e.Sender.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// OutboxWriter is the store capability needed to queue side effects.
type OutboxWriter interface {
	Save(ctx context.Context, e domain.Entry) error
}

// EnqueueEmail queues msg for delivery by the outbox processor.
// POST: a pending email entry exists
func EnqueueEmail(ctx context.Context, w OutboxWriter, msg emailDomain.Message, now time.Time) (domain.Entry, error) {
	if err := msg.Validate(); err != nil {
		return domain.Entry{}, err
	}
	payload, err := msg.Encode()
	if err != nil {
		return domain.Entry{}, err
	}
	entry := domain.Entry{
		ID:         uuid.NewString(),
		ActionType: domain.ActionTypeEmail,
		Payload:    payload,
		Status:     domain.StatusPending,
		CreatedAt:  now,
	}
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	if err := w.Save(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	log.Debug().Str("entry_id", entry.ID).Str("template", msg.Template).Msg("email_enqueued")
	return entry, nil
}
