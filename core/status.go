package core

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

// SystemStatus is the aggregated status for the admin dashboard: backend
// reachability, live web instances, and host memory.
type SystemStatus struct {
	Backend struct {
		Connected bool   `json:"connected"`
		Error     string `json:"error,omitempty"`
	} `json:"backend"`
	Instances struct {
		Reachable int `json:"reachable"`
		Total     int `json:"total"`
	} `json:"instances"`
	Memory struct {
		UsedBytes  uint64 `json:"used_bytes"`
		TotalBytes uint64 `json:"total_bytes"`
	} `json:"memory"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// CollectSystemStatus probes the backend and aggregates telemetry.
func CollectSystemStatus(ctx context.Context, api *BankingAPI, metrics *MetricsService, startedAt time.Time) SystemStatus {
	var st SystemStatus

	probe := api.TestConnection(ctx)
	st.Backend.Connected = probe.OK
	if !probe.OK {
		st.Backend.Error = probe.Err
	}

	instances, _ := metrics.Instances(ctx) // best-effort
	st.Instances.Total = len(instances)
	reachable := 0
	for _, hb := range instances {
		if hb.BackendReachable {
			reachable++
		}
	}
	st.Instances.Reachable = reachable

	used, total := readMemInfo()
	st.Memory.UsedBytes = used
	st.Memory.TotalBytes = total

	if !startedAt.IsZero() {
		st.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}

	return st
}

// readMemInfo returns used and total bytes using /proc/meminfo.
// If unavailable, returns zeros.
func readMemInfo() (used, total uint64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	var memTotal, memAvailable uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "MemTotal:") {
			memTotal = parseKiBLine(line)
		} else if strings.HasPrefix(line, "MemAvailable:") {
			memAvailable = parseKiBLine(line)
		}
	}
	if memTotal > 0 {
		total = memTotal
		if memAvailable <= memTotal {
			used = memTotal - memAvailable
		}
		// convert KiB -> bytes
		used *= 1024
		total *= 1024
	}
	return used, total
}

func parseKiBLine(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
