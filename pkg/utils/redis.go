package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
)

// RedisClient wraps the Redis client with chat conversation history management
type RedisClient struct {
	client     *redis.Client
	historyTTL time.Duration
	maxEntries int
	logger     logging.Logger
}

// ChatEntry represents a single chat exchange in a conversation
type ChatEntry struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistory represents the conversation history for one user
type ChatHistory struct {
	UserID    int         `json:"user_id"`
	Entries   []ChatEntry `json:"entries"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisClient{
		client:     redis.NewClient(opts),
		historyTTL: cfg.Chatbot.HistoryTTL,
		maxEntries: cfg.Chatbot.MaxHistory,
		logger:     logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// AppendChatEntry adds an exchange to a user's conversation history,
// creating the thread if it does not exist yet.
func (r *RedisClient) AppendChatEntry(ctx context.Context, userID int, entry ChatEntry) error {
	history, err := r.GetChatHistory(ctx, userID)
	if err != nil {
		// A transient lookup failure must not overwrite the thread
		return fmt.Errorf("failed to load chat history: %w", err)
	}
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}

	entry.ID = GenerateRequestID()
	entry.Timestamp = time.Now()
	history.Entries = append(history.Entries, entry)
	history.UpdatedAt = time.Now()

	// Bound memory per conversation
	if len(history.Entries) > r.maxEntries {
		history.Entries = history.Entries[len(history.Entries)-r.maxEntries:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal chat history: %w", err)
	}

	if err := r.client.Set(ctx, r.historyKey(userID), data, r.historyTTL).Err(); err != nil {
		r.logger.Error("Failed to save chat entry", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return fmt.Errorf("failed to save chat entry: %w", err)
	}

	return nil
}

// GetChatHistory retrieves the conversation history for a user. A user who
// has never chatted gets an empty history, not an error.
func (r *RedisClient) GetChatHistory(ctx context.Context, userID int) (*ChatHistory, error) {
	data, err := r.client.Get(ctx, r.historyKey(userID)).Result()
	return historyFromResult(data, err, userID)
}

// historyFromResult maps a raw Redis lookup onto a history, treating a
// missing key as an empty conversation.
func historyFromResult(data string, lookupErr error, userID int) (*ChatHistory, error) {
	if errors.Is(lookupErr, redis.Nil) {
		return &ChatHistory{UserID: userID, Entries: []ChatEntry{}}, nil
	}
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", lookupErr)
	}

	var history ChatHistory
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat history: %w", err)
	}
	return &history, nil
}

// DeleteChatHistory removes a user's conversation history
func (r *RedisClient) DeleteChatHistory(ctx context.Context, userID int) error {
	return r.client.Del(ctx, r.historyKey(userID)).Err()
}

func (r *RedisClient) historyKey(userID int) string {
	return fmt.Sprintf("chat:history:%d", userID)
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisClient) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}
