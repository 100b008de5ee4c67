// Package wizard drives the describe → review schema → explore flow.
//
// A Controller owns every piece of mutable state (description, region, field
// list, working dataset, chart config) and is the only caller of the remote
// service. Observers receive immutable Snapshots after every change.
package wizard

import (
	"errors"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/history"
	"github.com/spektr-org/datasynth/schema"
)

var (
	// ErrBusy is returned when a remote call is already in flight.
	ErrBusy = errors.New("a remote call is already in progress")
	// ErrWrongStep is returned when an operation is not valid in the current step.
	ErrWrongStep = errors.New("operation not allowed in the current step")
	// ErrNoPreviousStep is returned by Back on the first step.
	ErrNoPreviousStep = errors.New("already at the first step")
	// ErrCellOutOfRange is returned by EditCell for a row outside the dataset.
	ErrCellOutOfRange = errors.New("row index out of range")
	// ErrUnknownRegion is returned by SetRegion for a code not in Regions.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrStale is returned when a result arrives after Back or SelectHistory
	// moved the wizard on. The result is dropped.
	ErrStale = errors.New("result discarded: wizard moved on while the call was in flight")
)

// ============================================================================
// STEPS
// ============================================================================

// Step is a wizard stage.
type Step int

const (
	StepDescribe     Step = iota + 1 // enter description and region
	StepReviewSchema                 // edit suggested fields
	StepExplore                      // inspect, edit, chart, export
)

func (s Step) String() string {
	switch s {
	case StepDescribe:
		return "describe"
	case StepReviewSchema:
		return "review-schema"
	case StepExplore:
		return "explore"
	default:
		return "unknown"
	}
}

// ============================================================================
// REGIONS
// ============================================================================

// Region is a locale offered for generation.
type Region struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// DefaultRegion is selected when none is configured.
const DefaultRegion = "hi_IN"

// Regions lists the selectable locales in display order.
var Regions = []Region{
	{Code: "en_GB", Label: "England"},
	{Code: "hi_IN", Label: "India"},
	{Code: "en_US", Label: "USA"},
	{Code: "ja_JP", Label: "Japan"},
	{Code: "zh_CN", Label: "China"},
	{Code: "fr_FR", Label: "France"},
	{Code: "de_DE", Label: "Germany"},
}

// LookupRegion finds a region by code.
func LookupRegion(code string) (Region, bool) {
	for _, r := range Regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// ============================================================================
// SNAPSHOT
// ============================================================================

// HistoryEntry summarises one stored generation.
type HistoryEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Rows        int    `json:"rows"`
}

// Snapshot is a deep copy of controller state. Mutating it has no effect
// on the controller.
type Snapshot struct {
	Version     uint64             `json:"version"` // increases with every published change
	Step        Step               `json:"step"`
	Description string             `json:"description"`
	Region      string             `json:"region"`
	Fields      []schema.Field     `json:"fields"`
	Reasoning   string             `json:"reasoning"`
	Rows        engine.Dataset     `json:"rows"`
	Chart       engine.ChartConfig `json:"chart"`
	Busy        bool               `json:"busy"`
	Pending     string             `json:"pending,omitempty"` // op name while Busy
	Notice      string             `json:"notice,omitempty"`
	History     []HistoryEntry     `json:"history"`
}

func historyEntries(sums []history.Summary) []HistoryEntry {
	out := make([]HistoryEntry, len(sums))
	for i, sum := range sums {
		out[i] = HistoryEntry(sum)
	}
	return out
}
