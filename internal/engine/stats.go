package engine

import (
	"sync"
	"time"
)

// RunStats tracks timing and call counts for one run
type RunStats struct {
	mu         sync.Mutex
	StartTime  time.Time
	EndTime    time.Time
	ModelCalls int
	ModelTime  time.Duration
	ToolCalls  int
	FastPath   bool
}

// NewRunStats creates a new stats tracker
func NewRunStats() *RunStats {
	return &RunStats{StartTime: time.Now()}
}

// RecordModelCall counts a model call and its duration
func (s *RunStats) RecordModelCall(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ModelCalls++
	s.ModelTime += d
}

// RecordToolCall counts a tool execution
func (s *RunStats) RecordToolCall() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ToolCalls++
}

// Finish stamps the end of the run
func (s *RunStats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EndTime.IsZero() {
		s.EndTime = time.Now()
	}
}

// GetElapsedTime returns the run duration, or the time so far if still running
func (s *RunStats) GetElapsedTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
