// Package eventstore records build events in SQLite and projects them into
// a build history.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

const (
	StatusRunning = "running"
	StatusFailed  = "failed"
)

// BuildSummary is a read model of one build.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Status       string        `json:"status"` // running, failed, or the bundle outcome
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Mode         string        `json:"mode,omitempty"`
	CompileMode  string        `json:"compile_mode,omitempty"`
	Revision     string        `json:"revision,omitempty"`
	Entries      int           `json:"entries"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	ErrorStage   string        `json:"error_stage,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// BuildHistoryProjection rebuilds build summaries from stored events.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	maxSize int
}

// NewBuildHistoryProjection creates a projection backed by store.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 20
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	for _, event := range events {
		p.applyEventLocked(event)
	}
	return nil
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{
			BuildID:   buildID,
			Status:    StatusRunning,
			StartedAt: event.Timestamp(),
		}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var meta BuildStartedMeta
		if err := json.Unmarshal(event.Payload(), &meta); err == nil {
			summary.Mode = meta.Mode
			summary.CompileMode = meta.CompileMode
			summary.Revision = meta.Revision
		}

	case TypeStagingCompleted:
		var payload stagingPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Entries = payload.Entries
		}

	case TypeBundleCompleted:
		p.completeLocked(summary, event.Timestamp())
		var report BundleReport
		if err := json.Unmarshal(event.Payload(), &report); err == nil {
			summary.Status = report.Outcome
			summary.ErrorCount = len(report.Errors)
			summary.WarningCount = len(report.Warnings)
		}

	case TypeBuildFailed:
		p.completeLocked(summary, event.Timestamp())
		summary.Status = StatusFailed
		var payload failedPayload
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorStage = payload.Stage
			summary.ErrorMessage = payload.Error
		}
	}
}

func (p *BuildHistoryProjection) completeLocked(summary *BuildSummary, at time.Time) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
}

// GetHistory returns up to maxSize builds, newest first.
func (p *BuildHistoryProjection) GetHistory() []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]BuildSummary, 0, len(p.builds))
	for _, s := range p.builds {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].BuildID > result[j].BuildID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if len(result) > p.maxSize {
		result = result[:p.maxSize]
	}
	return result
}

// GetBuild returns the summary for a specific build.
func (p *BuildHistoryProjection) GetBuild(buildID string) (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, exists := p.builds[buildID]
	if !exists {
		return BuildSummary{}, false
	}
	return *summary, true
}
