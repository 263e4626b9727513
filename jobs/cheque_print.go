package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/khata-erp/khata-erp/internal/chequebooks"
	"github.com/khata-erp/khata-erp/internal/printing"
)

// ChequePrintJob drives one cheque from staged item to ledger row:
// claim a leaf, resolve the render bundle, hand it to the printer, then
// record the outcome. The leaf claim is idempotent, so a crashed worker
// re-running the task does not burn a second leaf.
type ChequePrintJob struct {
	Service *printing.Service
	Printer printing.Printer
	Logger  *slog.Logger
}

// NewChequePrintJob initialises the cheque print handler.
func NewChequePrintJob(service *printing.Service, printer printing.Printer, logger *slog.Logger) *ChequePrintJob {
	return &ChequePrintJob{Service: service, Printer: printer, Logger: logger}
}

// Handle executes the print flow for one queue item.
func (j *ChequePrintJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil || j.Printer == nil {
		return errors.New("cheque print: handler not configured")
	}
	var payload ChequePrintPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	logger := j.logger().With(slog.Int64("queue_item_id", payload.QueueItemID))
	logger.Info("starting cheque print")

	leaf, err := j.Service.ClaimLeaf(ctx, payload.QueueItemID)
	if err != nil {
		logger.Error("leaf claim failed", slog.Any("error", err))
		if errors.Is(err, chequebooks.ErrBookExhausted) || errors.Is(err, printing.ErrNotFound) {
			// Retrying cannot help until an operator intervenes.
			return asynq.SkipRetry
		}
		return err
	}
	logger = logger.With(slog.Int64("leaf_number", leaf))

	bundle, err := j.Service.Bundle(ctx, payload.QueueItemID)
	if err != nil {
		logger.Error("bundle resolution failed", slog.Any("error", err))
		return err
	}

	status := printing.StatusSuccess
	remarks := ""
	if printErr := j.Printer.Print(ctx, bundle); printErr != nil {
		// The leaf is spent either way. Record FAILED instead of
		// retrying onto a fresh leaf; the operator re-enqueues.
		status = printing.StatusFailed
		remarks = printErr.Error()
		logger.Error("print failed", slog.Any("error", printErr))
	}

	entry, err := j.Service.RecordOutcome(ctx, printing.RecordOutcomeRequest{
		QueueItemID: payload.QueueItemID,
		LeafNumber:  leaf,
		Status:      status,
		Remarks:     remarks,
	})
	if err != nil {
		logger.Error("outcome record failed", slog.Any("error", err))
		if errors.Is(err, printing.ErrDuplicateLedger) {
			return asynq.SkipRetry
		}
		return err
	}

	logger.Info("completed cheque print",
		slog.Int64("ledger_entry_id", entry.ID),
		slog.String("status", string(status)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *ChequePrintJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskChequePrint))
	}
	return slog.Default().With(slog.String("job", TaskChequePrint))
}
