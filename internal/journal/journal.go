// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list room event records are pushed onto.
var DefaultQueueName = "superfighter_events"

// RoomEventRecord is one journaled room event, consumed by out-of-process
// tooling (replay, moderation, stats).
type RoomEventRecord struct {
	RoomName  string                 `json:"room_name"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Journal pushes room event records onto a Redis list. A nil Journal is
// valid and records nothing, so the server runs fine without Redis.
type Journal struct {
	rdb    *redis.Client
	queue  string
	logger *logrus.Logger
}

// Connect initializes a journal from environment variables:
//   - REDIS_ADDR (empty disables journaling entirely)
//   - REDIS_DB (optional, default 0)
//   - JOURNAL_QUEUE_NAME (optional)
//
// Returns (nil, nil) when REDIS_ADDR is unset.
func Connect(logger *logrus.Logger) (*Journal, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	queue := os.Getenv("JOURNAL_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Journal{rdb: rdb, queue: queue, logger: logger}, nil
}

// Record serializes and pushes one room event. Fire-and-forget: failures
// are logged, never surfaced to game logic.
func (j *Journal) Record(roomName, eventType string, payload map[string]interface{}) {
	if j == nil {
		return
	}
	rec := RoomEventRecord{
		RoomName:  roomName,
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		j.logger.Errorf("Failed to marshal room event record: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := j.rdb.RPush(ctx, j.queue, data).Err(); err != nil {
			j.logger.Warnf("Failed to push room event to Redis list '%s': %v", j.queue, err)
		}
	}()
}

// Close releases the underlying Redis connection.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.rdb.Close()
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
