package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the global metrics collector instance
var (
	globalCollector *Collector
	once            sync.Once
)

// Branch identifies which step of a poll applied an image
type Branch string

const (
	// BranchNext is the fast path to the entry after the cached one
	BranchNext Branch = "next"
	// BranchWraparound is the fast path from the last entry back to the first
	BranchWraparound Branch = "wraparound"
	// BranchScan is the full scan finding the active entry
	BranchScan Branch = "scan"
	// BranchFallback applies the last entry when now is before every start
	BranchFallback Branch = "fallback"
)

// Collector tracks daemon metrics in memory
type Collector struct {
	// Counters (atomic for thread-safety)
	totalPolls    atomic.Int64
	totalFailures atomic.Int64
	totalReloads  atomic.Int64
	totalSkipped  atomic.Int64
	totalApplied  atomic.Int64
	failedApplies atomic.Int64

	// Application tracking (protected by mutex)
	mu               sync.RWMutex
	appliedByBranch  map[Branch]int64
	totalDuration    time.Duration
	operationCount   int64
	lastAppliedIndex int
	lastAppliedAt    time.Time
	startTime        time.Time
}

// Metrics represents a snapshot of current daemon metrics
type Metrics struct {
	TotalPolls       int64            `json:"total_polls"`
	TotalFailures    int64            `json:"total_failures"`
	TotalReloads     int64            `json:"total_reloads"`
	TotalSkipped     int64            `json:"total_skipped"`
	TotalApplied     int64            `json:"total_applied"`
	FailedApplies    int64            `json:"failed_applies"`
	AppliedByBranch  map[Branch]int64 `json:"applied_by_branch"`
	AvgApplyDuration time.Duration    `json:"avg_apply_duration"`
	LastAppliedIndex int              `json:"last_applied_index"`
	LastAppliedAt    time.Time        `json:"last_applied_at"`
	ErrorRate        float64          `json:"error_rate"`
	Uptime           time.Duration    `json:"uptime"`
}

// Default returns the global metrics collector instance
func Default() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		appliedByBranch:  make(map[Branch]int64),
		lastAppliedIndex: -1,
		startTime:        time.Now(),
	}
}

// RecordPoll counts a poll and whether it failed
func (c *Collector) RecordPoll(err error) {
	c.totalPolls.Add(1)
	if err != nil {
		c.totalFailures.Add(1)
	}
}

// RecordSkipped counts a poll that did not run because the daemon is inactive
func (c *Collector) RecordSkipped() {
	c.totalSkipped.Add(1)
}

// RecordReload counts a successful configuration reload
func (c *Collector) RecordReload() {
	c.totalReloads.Add(1)
}

// RecordApplied records a successful wallpaper application
func (c *Collector) RecordApplied(branch Branch, index int, duration time.Duration) {
	c.totalApplied.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.appliedByBranch[branch]++
	c.totalDuration += duration
	c.operationCount++
	c.lastAppliedIndex = index
	c.lastAppliedAt = time.Now()
}

// RecordApplyFailed records a wallpaper application that returned an error
func (c *Collector) RecordApplyFailed(_ Branch, duration time.Duration) {
	c.failedApplies.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalDuration += duration
	c.operationCount++
}

// GetMetrics returns a snapshot of current metrics
func (c *Collector) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Create copies of maps
	appliedByBranch := make(map[Branch]int64, len(c.appliedByBranch))
	for k, v := range c.appliedByBranch {
		appliedByBranch[k] = v
	}

	// Calculate average duration
	var avgDuration time.Duration
	if c.operationCount > 0 {
		avgDuration = c.totalDuration / time.Duration(c.operationCount)
	}

	// Calculate error rate
	var errorRate float64
	polls := c.totalPolls.Load()
	if polls > 0 {
		errorRate = float64(c.totalFailures.Load()) / float64(polls) * 100
	}

	return Metrics{
		TotalPolls:       polls,
		TotalFailures:    c.totalFailures.Load(),
		TotalReloads:     c.totalReloads.Load(),
		TotalSkipped:     c.totalSkipped.Load(),
		TotalApplied:     c.totalApplied.Load(),
		FailedApplies:    c.failedApplies.Load(),
		AppliedByBranch:  appliedByBranch,
		AvgApplyDuration: avgDuration,
		LastAppliedIndex: c.lastAppliedIndex,
		LastAppliedAt:    c.lastAppliedAt,
		ErrorRate:        errorRate,
		Uptime:           time.Since(c.startTime),
	}
}

// Reset clears all metrics (useful for testing)
func (c *Collector) Reset() {
	c.totalPolls.Store(0)
	c.totalFailures.Store(0)
	c.totalReloads.Store(0)
	c.totalSkipped.Store(0)
	c.totalApplied.Store(0)
	c.failedApplies.Store(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.appliedByBranch = make(map[Branch]int64)
	c.totalDuration = 0
	c.operationCount = 0
	c.lastAppliedIndex = -1
	c.lastAppliedAt = time.Time{}
	c.startTime = time.Now()
}

// GetMetrics returns metrics from the global collector
func GetMetrics() Metrics {
	return Default().GetMetrics()
}

// ResetMetrics resets the global collector
func ResetMetrics() {
	Default().Reset()
}
