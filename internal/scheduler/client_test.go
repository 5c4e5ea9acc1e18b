package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type fakeSchedulerConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
	concurrency int
}

func (c fakeSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c fakeSchedulerConfig) GetRedisTLSInsecure() bool { return c.tlsInsecure }
func (c fakeSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c fakeSchedulerConfig) GetAsynqConcurrency() int  { return c.concurrency }

func TestEnqueueDailyDigest(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(fakeSchedulerConfig{
		redisURL: "redis://" + mr.Addr(),
		queue:    "digest",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.EnqueueDailyDigest(context.Background(), DailyDigestPayload{Recipient: "office@example.com"})
	if err != nil {
		t.Fatalf("EnqueueDailyDigest: %v", err)
	}

	if !mr.Exists("asynq:{digest}:pending") {
		t.Fatal("task was not enqueued on the digest queue")
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestDailyDigestPayloadRoundTrip(t *testing.T) {
	task, err := NewDailyDigestTask(DailyDigestPayload{Recipient: "office@example.com"})
	if err != nil {
		t.Fatalf("NewDailyDigestTask: %v", err)
	}
	if task.Type() != TaskDailyDigest {
		t.Fatalf("task type = %q", task.Type())
	}

	payload, err := ParseDailyDigestPayload(task)
	if err != nil {
		t.Fatalf("ParseDailyDigestPayload: %v", err)
	}
	if payload.Recipient != "office@example.com" {
		t.Fatalf("recipient = %q", payload.Recipient)
	}
}
