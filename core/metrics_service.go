package core

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
)

// MetricsService records and aggregates backend-call telemetry in Redis.
// A nil service is valid and does nothing, so the web client runs the same
// with or without a Redis deployment.
type MetricsService struct {
	redis RedisClientRaw
}

func NewMetricsService(redis RedisClientRaw) *MetricsService {
	return &MetricsService{redis: redis}
}

// ObserveOperation bumps the outcome counter for one backend operation.
func (s *MetricsService) ObserveOperation(ctx context.Context, op string, r Result) {
	if s == nil || s.redis == nil {
		return
	}
	if err := s.redis.HIncrBy(ctx, OperationMetricsKey(op), outcomeLabel(r), 1).Err(); err != nil {
		log.Printf("metrics: failed to record %s: %v", op, err)
	}
}

// Operations returns outcome counters per backend operation.
func (s *MetricsService) Operations(ctx context.Context) (map[string]map[string]int64, error) {
	out := map[string]map[string]int64{}
	if s == nil || s.redis == nil {
		return out, nil
	}
	iter := s.redis.Scan(ctx, 0, OperationMetricsPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil {
			continue
		}
		counters := map[string]int64{}
		for outcome, raw := range fields {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				counters[outcome] = n
			}
		}
		out[key[len(OperationMetricsPrefix):]] = counters
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Instances returns every live web-instance heartbeat.
func (s *MetricsService) Instances(ctx context.Context) ([]InstanceHeartbeat, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	iter := s.redis.Scan(ctx, 0, InstanceHeartbeatPrefix+"*", 100).Iterator()
	var res []InstanceHeartbeat
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.redis.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		var hb InstanceHeartbeat
		if err := json.Unmarshal([]byte(val), &hb); err != nil {
			continue
		}
		res = append(res, hb)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Overview bundles operation counters and instance heartbeats for the
// admin dashboard.
func (s *MetricsService) Overview(ctx context.Context) (map[string]map[string]int64, []InstanceHeartbeat, error) {
	ops, err := s.Operations(ctx)
	if err != nil {
		return nil, nil, err
	}
	instances, err := s.Instances(ctx)
	if err != nil {
		return ops, nil, err
	}
	return ops, instances, nil
}
