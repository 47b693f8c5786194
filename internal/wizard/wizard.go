// Package wizard holds the form state of a pitch: the project data, the
// current section, completion math, and the submission and grant-fetch state
// machines. It does no I/O of its own; network calls go through Analyzer.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"go.uber.org/zap"
)

// SubmitThreshold is the minimum total completion, in percent, for submission.
const SubmitThreshold = 50.0

// Phase is the state of the submission flow.
type Phase int

const (
	Editing Phase = iota
	Submitting
	ResultsShown
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case ResultsShown:
		return "results"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

var (
	ErrFieldNotInSection = errors.New("field does not belong to section")
	ErrNotEditing        = errors.New("project can only be edited in the form")
)

// Analyzer is the remote service the wizard submits to.
type Analyzer interface {
	Analyze(ctx context.Context, data model.ProjectData) (*model.AnalysisResult, error)
	MicroGrants(ctx context.Context, data model.ProjectData) ([]model.GrantSuggestion, error)
}

// Wizard is not safe for concurrent use. The TUI only touches it from its
// update loop.
type Wizard struct {
	data    model.ProjectData
	current int
	phase   Phase

	result  *model.AnalysisResult
	lastErr error

	grants     GrantState
	generation uint64

	logger *zap.Logger
}

// New starts a wizard on an empty project.
func New(logger *zap.Logger) *Wizard {
	return NewFrom(model.ProjectData{}, logger)
}

// NewFrom starts a wizard on previously collected data.
func NewFrom(data model.ProjectData, logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		data:   data,
		phase:  Editing,
		logger: logger,
	}
}

// Data returns a copy of the project data.
func (w *Wizard) Data() model.ProjectData {
	return w.data
}

func (w *Wizard) Phase() Phase {
	return w.phase
}

// UpdateField stores value as-is in exactly one field.
func (w *Wizard) UpdateField(section model.SectionID, field model.FieldID, value string) error {
	if !field.Valid() || field.Section() != section {
		return fmt.Errorf("%w: %s in %s", ErrFieldNotInSection, field, section)
	}
	if w.phase != Editing {
		return ErrNotEditing
	}
	w.data.Set(field, value)
	return nil
}

// Completion is the share of non-blank fields of a section, 0 to 100.
func (w *Wizard) Completion(section model.SectionID) float64 {
	return sectionCompletion(w.data, section)
}

// TotalCompletion is the plain mean of the section completions. A section
// with one field weighs as much as one with four.
func (w *Wizard) TotalCompletion() float64 {
	return totalCompletion(w.data)
}

func sectionCompletion(data model.ProjectData, section model.SectionID) float64 {
	s := data.Section(section)
	if s == nil {
		return 0
	}
	values := s.Values()
	if len(values) == 0 {
		return 0
	}
	filled := 0
	for _, v := range values {
		if !model.IsBlank(v) {
			filled++
		}
	}
	return float64(filled) / float64(len(values)) * 100
}

func totalCompletion(data model.ProjectData) float64 {
	var sum float64
	for _, id := range model.AllSections() {
		sum += sectionCompletion(data, id)
	}
	return sum / model.SectionCount
}

// CanSubmit reports whether the completion gate is open.
func (w *Wizard) CanSubmit() bool {
	return w.TotalCompletion() >= SubmitThreshold
}

func (w *Wizard) CurrentIndex() int {
	return w.current
}

func (w *Wizard) Current() model.SectionID {
	return model.AllSections()[w.current]
}

func (w *Wizard) IsFinalSection() bool {
	return w.current == model.SectionCount-1
}

// GoToSection moves to index, clamped to the valid range.
func (w *Wizard) GoToSection(index int) {
	switch {
	case index < 0:
		index = 0
	case index > model.SectionCount-1:
		index = model.SectionCount - 1
	}
	w.current = index
}

func (w *Wizard) Next() {
	w.GoToSection(w.current + 1)
}

func (w *Wizard) Prev() {
	w.GoToSection(w.current - 1)
}

// Result is the last analysis result, or nil outside ResultsShown.
func (w *Wizard) Result() *model.AnalysisResult {
	return w.result
}

// LastError is the error of the last failed submission. It is cleared by the
// next submission attempt.
func (w *Wizard) LastError() error {
	return w.lastErr
}
