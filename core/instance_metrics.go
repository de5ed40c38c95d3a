package core

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"time"
)

// Telemetry key layout. Operation counters live in one hash per operation;
// each running web instance refreshes a heartbeat with a TTL so dead
// instances age out on their own.
const (
	OperationMetricsPrefix  = "bankweb:ops:"
	InstanceHeartbeatPrefix = "bankweb:instance:"
	InstanceHeartbeatTTL    = 45 * time.Second
)

// InstanceHeartbeatKey returns the Redis key for a given instance ID.
func InstanceHeartbeatKey(id string) string {
	return InstanceHeartbeatPrefix + id
}

// OperationMetricsKey returns the Redis hash key for one backend operation.
func OperationMetricsKey(op string) string {
	return OperationMetricsPrefix + op
}

// InstanceHeartbeat is the liveness record one web instance publishes.
type InstanceHeartbeat struct {
	InstanceID       string    `json:"instance_id"`
	Hostname         string    `json:"hostname"`
	PID              int       `json:"pid"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	RequestsTotal    int64     `json:"requests_total"`
	FailuresTotal    int64     `json:"failures_total"`
	LastError        string    `json:"last_error,omitempty"`
	BackendReachable bool      `json:"backend_reachable"`
	MemorySysBytes   uint64    `json:"memory_sys_bytes"`
	NumGoroutine     int       `json:"num_goroutine"`
	StartedAt        time.Time `json:"started_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SaveHeartbeat stores heartbeat JSON with TTL.
func SaveHeartbeat(ctx context.Context, client RedisClientRaw, hb InstanceHeartbeat) error {
	hb.UpdatedAt = time.Now()
	data, err := json.Marshal(hb)
	if err != nil {
		return err
	}
	return client.Set(ctx, InstanceHeartbeatKey(hb.InstanceID), data, InstanceHeartbeatTTL).Err()
}

// UpdateRuntimeStats overwrites memory/goroutine figures with current values.
func (h *InstanceHeartbeat) UpdateRuntimeStats() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	h.MemorySysBytes = ms.Sys
	h.NumGoroutine = runtime.NumGoroutine()
}

// outcomeLabel collapses a Result into a counter field name.
func outcomeLabel(r Result) string {
	if r.OK {
		if r.BusinessOK() {
			return "ok"
		}
		return "business_rejected"
	}
	if r.Kind == "" {
		return "failed"
	}
	return strings.ToLower(string(r.Kind))
}
