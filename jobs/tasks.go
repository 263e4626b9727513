package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskChequePrint is the task type for printing one staged cheque.
	TaskChequePrint = "cheque:print"
)

// ChequePrintPayload identifies the staged queue item to print.
type ChequePrintPayload struct {
	QueueItemID int64 `json:"queue_item_id"`
}

// NewChequePrintTask constructs an Asynq task.
func NewChequePrintTask(payload ChequePrintPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskChequePrint, data), nil
}
