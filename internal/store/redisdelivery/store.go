// Package redisdelivery stores delivery records in Redis hashes so that
// replicas share one view of which deliveries are pending or done.
package redisdelivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phoexer/openproject/internal/model"
	"github.com/phoexer/openproject/internal/store"
)

const (
	fieldProvider  = "provider"
	fieldStatus    = "status"
	fieldOutcome   = "outcome"
	fieldError     = "error"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

var putIfAbsentScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'provider', ARGV[1], 'status', ARGV[2], 'created_at', ARGV[3], 'updated_at', ARGV[3])
return 1
`)

var retryScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'status')
if not status then
  return -1
end
local updated = tonumber(redis.call('HGET', KEYS[1], 'updated_at')) or 0
if status == 'failed' or (status == 'pending' and updated < tonumber(ARGV[1])) then
  redis.call('HSET', KEYS[1], 'status', 'pending', 'updated_at', ARGV[2])
  redis.call('HDEL', KEYS[1], 'error')
  return 1
end
return 0
`)

var completeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
if redis.call('HGET', KEYS[1], 'status') ~= 'pending' then
  return -1
end
redis.call('HSET', KEYS[1], 'status', ARGV[1], 'outcome', ARGV[2], 'updated_at', ARGV[3])
if ARGV[4] == '1' then
  redis.call('HSET', KEYS[1], 'error', ARGV[5])
else
  redis.call('HDEL', KEYS[1], 'error')
end
return 1
`)

type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ store.DeliveryRecordStore = (*Store)(nil)

// New returns a store keeping records under "<prefix>:delivery:<id>".
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) key(deliveryID string) string {
	return s.prefix + ":delivery:" + deliveryID
}

func (s *Store) Get(ctx context.Context, deliveryID string) (*model.DeliveryRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key(deliveryID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get delivery record: %w", err)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}
	return toRecord(deliveryID, fields)
}

func (s *Store) PutIfAbsent(ctx context.Context, record *model.DeliveryRecord) (bool, error) {
	n, err := putIfAbsentScript.Run(ctx, s.client,
		[]string{s.key(record.DeliveryID)},
		record.Provider, string(record.Status), s.now().UnixMilli(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("put delivery record: %w", err)
	}
	return n == 1, nil
}

func (s *Store) Retry(ctx context.Context, deliveryID string, staleBefore time.Time) (bool, error) {
	n, err := retryScript.Run(ctx, s.client,
		[]string{s.key(deliveryID)},
		staleBefore.UnixMilli(), s.now().UnixMilli(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("retry delivery record: %w", err)
	}
	if n < 0 {
		return false, store.ErrNotFound
	}
	return n == 1, nil
}

func (s *Store) Complete(ctx context.Context, deliveryID string, status model.DeliveryStatus, outcome json.RawMessage, errMsg *string) error {
	hasErr, msg := "0", ""
	if errMsg != nil {
		hasErr, msg = "1", *errMsg
	}

	n, err := completeScript.Run(ctx, s.client,
		[]string{s.key(deliveryID)},
		string(status), string(outcome), s.now().UnixMilli(), hasErr, msg,
	).Int()
	if err != nil {
		return fmt.Errorf("complete delivery record: %w", err)
	}
	switch n {
	case 0:
		return store.ErrNotFound
	case -1:
		return store.ErrDeliveryNotPending
	}
	return nil
}

func toRecord(deliveryID string, fields map[string]string) (*model.DeliveryRecord, error) {
	createdAt, err := parseMillis(fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := parseMillis(fields[fieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	record := &model.DeliveryRecord{
		DeliveryID: deliveryID,
		Provider:   fields[fieldProvider],
		Status:     model.DeliveryStatus(fields[fieldStatus]),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if outcome := fields[fieldOutcome]; outcome != "" {
		record.Outcome = json.RawMessage(outcome)
	}
	if msg, ok := fields[fieldError]; ok {
		record.Error = &msg
	}
	return record, nil
}

func parseMillis(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
