package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

func TestNotificationOutboxDuePayloadRoundTrip(t *testing.T) {
	outboxID := uuid.New().String()

	task, err := NewNotificationOutboxDueTask(NotificationOutboxDuePayload{OutboxID: outboxID})
	if err != nil {
		t.Fatalf("NewNotificationOutboxDueTask: %v", err)
	}
	if task.Type() != TaskNotificationOutboxDue {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskNotificationOutboxDue)
	}

	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		t.Fatalf("ParseNotificationOutboxDuePayload: %v", err)
	}
	if payload.OutboxID != outboxID {
		t.Fatalf("outboxId = %q, want %q", payload.OutboxID, outboxID)
	}
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "localhost:6380" {
		t.Fatalf("addr = %q, want localhost:6380", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Fatalf("password = %q, want secret", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("db = %d, want 2", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS config for redis:// URL")
	}
}

func TestRedisClientOptTLSInsecure(t *testing.T) {
	opt, err := redisClientOpt("rediss://localhost:6380", true)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig == nil {
		t.Fatal("expected TLS config for rediss:// URL")
	}
	if !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected InsecureSkipVerify to be set")
	}
}

func TestRedisClientOptRejectsInvalidURL(t *testing.T) {
	if _, err := redisClientOpt("not-a-url", false); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}

func TestEnqueueOutboxDueTask(t *testing.T) {
	srv := miniredis.RunT(t)

	opt, err := redisClientOpt("redis://"+srv.Addr(), false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}

	client := asynq.NewClient(opt)
	defer func() { _ = client.Close() }()

	task, err := NewNotificationOutboxDueTask(NotificationOutboxDuePayload{OutboxID: uuid.New().String()})
	if err != nil {
		t.Fatalf("NewNotificationOutboxDueTask: %v", err)
	}

	info, err := client.EnqueueContext(context.Background(), task, asynq.Queue("claims"))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if info.Queue != "claims" {
		t.Fatalf("queue = %q, want claims", info.Queue)
	}
	if len(srv.Keys()) == 0 {
		t.Fatal("expected asynq keys in redis after enqueue")
	}
}
