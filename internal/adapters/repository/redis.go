package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
	"github.com/talentsync/talentsync/pkg/metrics"
)

// Redis key layout: one JSON document per record under "job:<id>",
// "freelancer:<id>" or "msg:<id>", with set-based indexes per collection,
// per user and per conversation. Writes publish the record kind on a
// pub/sub channel so subscribed readers can re-load.
const (
	jobKeyPrefix        = "job:"
	freelancerKeyPrefix = "freelancer:"
	messageKeyPrefix    = "msg:"

	jobIndexKey        = "jobs:index"
	freelancerIndexKey = "freelancers:index"

	messageUserIndexPrefix = "msgs:user:"
	messageConvIndexPrefix = "msgs:conv:"

	changeChannelPrefix = "talentsync:changed:"

	dialTimeout  = 5 * time.Second
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
)

// RedisStore implements Store and Subscriber over a Redis document store.
type RedisStore struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, log logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info(ctx, "connected to redis document store", logger.String("addr", addr))
	return &RedisStore{client: client, log: log}, nil
}

func (s *RedisStore) LoadJobs(ctx context.Context) ([]model.RawJob, error) {
	docs, err := s.loadIndexed(ctx, jobIndexKey, jobKeyPrefix, "load_jobs")
	if err != nil {
		return nil, err
	}
	jobs := make([]model.RawJob, 0, len(docs))
	for _, doc := range docs {
		var raw model.RawJob
		if err := json.Unmarshal(doc, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt job document", logger.Error(err))
			continue
		}
		jobs = append(jobs, raw)
	}
	return jobs, nil
}

func (s *RedisStore) LoadFreelancers(ctx context.Context) ([]model.RawFreelancer, error) {
	docs, err := s.loadIndexed(ctx, freelancerIndexKey, freelancerKeyPrefix, "load_freelancers")
	if err != nil {
		return nil, err
	}
	freelancers := make([]model.RawFreelancer, 0, len(docs))
	for _, doc := range docs {
		var raw model.RawFreelancer
		if err := json.Unmarshal(doc, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt freelancer document", logger.Error(err))
			continue
		}
		freelancers = append(freelancers, raw)
	}
	return freelancers, nil
}

func (s *RedisStore) LoadMessages(ctx context.Context, userID string) ([]model.RawMessage, error) {
	docs, err := s.loadIndexed(ctx, messageUserIndexPrefix+userID, messageKeyPrefix, "load_messages")
	if err != nil {
		return nil, err
	}
	msgs := make([]model.RawMessage, 0, len(docs))
	for _, doc := range docs {
		var raw model.RawMessage
		if err := json.Unmarshal(doc, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt message document", logger.Error(err))
			continue
		}
		msgs = append(msgs, raw)
	}
	return msgs, nil
}

// loadIndexed fetches every document listed in a set index. Ids whose
// document has expired or gone missing are dropped silently.
func (s *RedisStore) loadIndexed(ctx context.Context, indexKey, keyPrefix, op string) ([][]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("redis", op, float64(time.Since(start).Milliseconds()))
	}()

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		metrics.RecordRepositoryError("redis", op)
		return nil, fmt.Errorf("smembers %s: %w", indexKey, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.RecordRepositoryError("redis", op)
		return nil, fmt.Errorf("mget: %w", err)
	}

	docs := make([][]byte, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		docs = append(docs, []byte(str))
	}
	return docs, nil
}

func (s *RedisStore) SaveJob(ctx context.Context, raw model.RawJob) (string, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if err := s.saveIndexed(ctx, jobKeyPrefix+raw.ID, raw, "save_job", []string{jobIndexKey}, KindJob, raw.ID); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func (s *RedisStore) SaveFreelancer(ctx context.Context, raw model.RawFreelancer) (string, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if err := s.saveIndexed(ctx, freelancerKeyPrefix+raw.ID, raw, "save_freelancer", []string{freelancerIndexKey}, KindFreelancer, raw.ID); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func (s *RedisStore) SaveMessage(ctx context.Context, raw model.RawMessage) (string, error) {
	if raw.ID == "" {
		// ULIDs keep message keys time-sortable.
		raw.ID = ulid.Make().String()
	}
	if raw.ConversationID == "" && raw.SenderID != "" && raw.ReceiverID != "" {
		raw.ConversationID = model.ConversationID(raw.SenderID, raw.ReceiverID)
	}

	indexes := []string{
		messageConvIndexPrefix + raw.ConversationID,
		messageUserIndexPrefix + raw.SenderID,
		messageUserIndexPrefix + raw.ReceiverID,
	}
	if err := s.saveIndexed(ctx, messageKeyPrefix+raw.ID, raw, "save_message", indexes, KindMessage, raw.ID); err != nil {
		return "", err
	}
	return raw.ID, nil
}

// saveIndexed writes one JSON document, registers its id in each index
// set, and publishes a change notification for the kind.
func (s *RedisStore) saveIndexed(ctx context.Context, key string, doc any, op string, indexes []string, kind Kind, id string) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("redis", op, float64(time.Since(start).Milliseconds()))
	}()

	data, err := json.Marshal(doc)
	if err != nil {
		metrics.RecordRepositoryError("redis", op)
		return fmt.Errorf("marshal document: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	for _, index := range indexes {
		pipe.SAdd(ctx, index, id)
	}
	pipe.Publish(ctx, changeChannelPrefix+string(kind), id)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRepositoryError("redis", op)
		return fmt.Errorf("write document %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	const op = "mark_read"
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("redis", op, float64(time.Since(start).Milliseconds()))
	}()

	ids, err := s.client.SMembers(ctx, messageConvIndexPrefix+conversationID).Result()
	if err != nil {
		metrics.RecordRepositoryError("redis", op)
		return fmt.Errorf("smembers conversation %s: %w", conversationID, err)
	}

	for _, id := range ids {
		key := messageKeyPrefix + id
		data, err := s.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			metrics.RecordRepositoryError("redis", op)
			return fmt.Errorf("get message %s: %w", id, err)
		}
		var raw model.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt message document", logger.Error(err))
			continue
		}
		if raw.SenderID == readerID || raw.Read {
			continue
		}
		raw.Read = true
		updated, err := json.Marshal(raw)
		if err != nil {
			metrics.RecordRepositoryError("redis", op)
			return fmt.Errorf("marshal message %s: %w", id, err)
		}
		if err := s.client.Set(ctx, key, updated, 0).Err(); err != nil {
			metrics.RecordRepositoryError("redis", op)
			return fmt.Errorf("update message %s: %w", id, err)
		}
	}
	return nil
}

// Subscribe listens on the kind's pub/sub channel and invokes onChange
// for every published write. The returned function stops the listener.
func (s *RedisStore) Subscribe(ctx context.Context, kind Kind, onChange func(Kind)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, changeChannelPrefix+string(kind))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", kind, err)
	}

	go func() {
		for range pubsub.Channel() {
			metrics.RecordSubscriptionEvent()
			onChange(kind)
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
