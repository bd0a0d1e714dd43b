package eventstore

import (
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted     = "BuildStarted"
	TypeStagingCompleted = "StagingCompleted"
	TypeBundleCompleted  = "BundleCompleted"
	TypeBuildFailed      = "BuildFailed"
)

func newBaseEvent(buildID, eventType string, payload any) (BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return BaseEvent{}, errors.HistoryError(fmt.Sprintf("failed to marshal %s payload", eventType)).
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// BuildStartedMeta describes the build being started.
type BuildStartedMeta struct {
	ProjectRoot string `json:"project_root"`
	Mode        string `json:"mode"`
	CompileMode string `json:"compile_mode"`
	Variant     string `json:"variant"`
	Revision    string `json:"revision,omitempty"`
}

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	Meta BuildStartedMeta
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, meta BuildStartedMeta) (*BuildStarted, error) {
	base, err := newBaseEvent(buildID, TypeBuildStarted, meta)
	if err != nil {
		return nil, err
	}
	return &BuildStarted{BaseEvent: base, Meta: meta}, nil
}

type stagingPayload struct {
	Path       string `json:"path"`
	Entries    int    `json:"entries"`
	DurationMS int64  `json:"duration_ms"`
}

// StagingCompleted is emitted when the AoT staging workspace is populated.
type StagingCompleted struct {
	BaseEvent
	Path     string
	Entries  int
	Duration time.Duration
}

// NewStagingCompleted creates a StagingCompleted event.
func NewStagingCompleted(buildID, path string, entries int, duration time.Duration) (*StagingCompleted, error) {
	base, err := newBaseEvent(buildID, TypeStagingCompleted, stagingPayload{
		Path:       path,
		Entries:    entries,
		DurationMS: duration.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return &StagingCompleted{BaseEvent: base, Path: path, Entries: entries, Duration: duration}, nil
}

// BundleReport is the classified bundler result stored with BundleCompleted.
type BundleReport struct {
	Outcome    string   `json:"outcome"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// BundleCompleted is emitted when the bundler produced a report.
type BundleCompleted struct {
	BaseEvent
	Report BundleReport
}

// NewBundleCompleted creates a BundleCompleted event.
func NewBundleCompleted(buildID string, report BundleReport) (*BundleCompleted, error) {
	base, err := newBaseEvent(buildID, TypeBundleCompleted, report)
	if err != nil {
		return nil, err
	}
	return &BundleCompleted{BaseEvent: base, Report: report}, nil
}

type failedPayload struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// BuildFailed is emitted when a build ends with a fatal error.
type BuildFailed struct {
	BaseEvent
	Stage string
	Error string
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, stage, errorMsg string) (*BuildFailed, error) {
	base, err := newBaseEvent(buildID, TypeBuildFailed, failedPayload{Stage: stage, Error: errorMsg})
	if err != nil {
		return nil, err
	}
	return &BuildFailed{BaseEvent: base, Stage: stage, Error: errorMsg}, nil
}
