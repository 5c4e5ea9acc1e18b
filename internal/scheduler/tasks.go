package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDailyDigest = "digest.daily"

type DailyDigestPayload struct {
	Recipient string `json:"recipient"`
}

func NewDailyDigestTask(payload DailyDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyDigest, data), nil
}

func ParseDailyDigestPayload(task *asynq.Task) (DailyDigestPayload, error) {
	var payload DailyDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DailyDigestPayload{}, err
	}
	return payload, nil
}
