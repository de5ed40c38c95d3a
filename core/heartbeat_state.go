package core

import (
	"context"
	"os"
	"sync"
	"time"
)

// HeartbeatState aggregates per-instance request counters and publishes
// them to Redis on a fixed cadence. It implements OperationObserver so the
// BankingAPI feeds it without extra plumbing.
type HeartbeatState struct {
	mu     sync.Mutex
	hb     InstanceHeartbeat
	ticker *time.Ticker
}

func NewHeartbeatState(instanceID string) *HeartbeatState {
	hostname, _ := os.Hostname()
	return &HeartbeatState{
		hb: InstanceHeartbeat{
			InstanceID: instanceID,
			Hostname:   hostname,
			PID:        os.Getpid(),
			StartedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		},
		ticker: time.NewTicker(5 * time.Second),
	}
}

// ObserveOperation updates the in-process counters from one backend Result.
func (s *HeartbeatState) ObserveOperation(_ context.Context, op string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hb.RequestsTotal++
	if !r.OK {
		s.hb.FailuresTotal++
		s.hb.LastError = r.Err
	}
	if op == OpTestConnection {
		s.hb.BackendReachable = r.OK
	}
}

// Start publishes the heartbeat until ctx is cancelled. Blocks; run it in
// its own goroutine.
func (s *HeartbeatState) Start(ctx context.Context, client RedisClientRaw) {
	s.flush(ctx, client)
	defer s.ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticker.C:
			s.flush(ctx, client)
		}
	}
}

// Snapshot returns a copy of the current heartbeat for status endpoints.
func (s *HeartbeatState) Snapshot() InstanceHeartbeat {
	s.mu.Lock()
	defer s.mu.Unlock()
	hb := s.hb
	hb.UptimeSeconds = int64(time.Since(s.hb.StartedAt).Seconds())
	return hb
}

func (s *HeartbeatState) flush(ctx context.Context, client RedisClientRaw) {
	s.mu.Lock()
	s.hb.UptimeSeconds = int64(time.Since(s.hb.StartedAt).Seconds())
	s.hb.UpdateRuntimeStats()
	hbCopy := s.hb
	s.mu.Unlock()
	_ = SaveHeartbeat(ctx, client, hbCopy)
}
