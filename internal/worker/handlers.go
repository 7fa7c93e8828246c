package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shaiso/Nodeflow/internal/mq"
	"github.com/shaiso/Nodeflow/internal/orchestrator"
)

// handleRunPending обрабатывает событие из очереди runs.pending.
func (w *Worker) handleRunPending(ctx context.Context, msg mq.Message) error {
	payload, err := mq.ParsePayload[mq.RunPendingPayload](msg)
	if err != nil {
		return fmt.Errorf("%w: %v", mq.ErrPermanent, err)
	}
	if payload.RunID == uuid.Nil {
		return fmt.Errorf("%w: run.pending without run_id", mq.ErrPermanent)
	}

	w.logger.Debug("received run.pending event", "run_id", payload.RunID)

	return w.processRun(ctx, payload.RunID)
}

// processRun передаёт run orchestrator'у.
//
// Run, который уже выполнен, выполняется другим воркером или удалён,
// не считается ошибкой: сообщение подтверждается.
func (w *Worker) processRun(ctx context.Context, runID uuid.UUID) error {
	run, err := w.processor.ProcessRun(ctx, runID)
	if err != nil {
		if isSkippable(err) {
			w.logger.Debug("run not processed", "run_id", runID, "reason", err)
			return nil
		}
		return err
	}

	w.logger.Debug("run processed",
		"run_id", runID,
		"status", run.Status,
	)
	return nil
}

func isSkippable(err error) bool {
	return errors.Is(err, orchestrator.ErrRunNotPending) ||
		errors.Is(err, orchestrator.ErrRunAlreadyActive) ||
		errors.Is(err, orchestrator.ErrRunNotFound)
}
