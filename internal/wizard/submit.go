package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"go.uber.org/zap"
)

var (
	ErrNotFinalSection = errors.New("submission is only possible from the last section")
	ErrIncomplete      = fmt.Errorf("project must be at least %.0f%% complete", SubmitThreshold)
	ErrSubmitInFlight  = errors.New("a submission is already in progress")
	ErrNotSubmitting   = errors.New("no submission in progress")
	ErrNoResults       = errors.New("no results to go back from")
)

// BeginSubmit moves Editing to Submitting and returns the payload to send.
func (w *Wizard) BeginSubmit() (model.ProjectData, error) {
	switch {
	case w.phase == Submitting:
		return model.ProjectData{}, ErrSubmitInFlight
	case w.phase != Editing:
		return model.ProjectData{}, fmt.Errorf("cannot submit while %s", w.phase)
	case !w.IsFinalSection():
		return model.ProjectData{}, ErrNotFinalSection
	case !w.CanSubmit():
		return model.ProjectData{}, ErrIncomplete
	}

	w.phase = Submitting
	w.lastErr = nil
	w.logger.Info("submitting project",
		zap.String("project", w.data.Overview.ProjectName),
		zap.Float64("completion", w.TotalCompletion()))
	return w.data, nil
}

// CompleteSubmit stores the result and shows it.
func (w *Wizard) CompleteSubmit(result *model.AnalysisResult) error {
	if w.phase != Submitting {
		return ErrNotSubmitting
	}
	if result == nil {
		result = &model.AnalysisResult{}
	}
	if result.Analogs == nil {
		result.Analogs = []model.Analog{}
	}

	w.phase = ResultsShown
	w.result = result
	w.generation++
	w.grants = GrantState{}
	return nil
}

// FailSubmit returns to the form. Nothing from the failed attempt is kept
// except the error itself.
func (w *Wizard) FailSubmit(err error) error {
	if w.phase != Submitting {
		return ErrNotSubmitting
	}
	w.logger.Error("analysis failed", zap.Error(err))
	w.phase = Editing
	w.result = nil
	w.lastErr = err
	return nil
}

// Back leaves the results and returns to the form with the data untouched.
// Any grant fetch still in flight is orphaned.
func (w *Wizard) Back() error {
	if w.phase != ResultsShown {
		return ErrNoResults
	}
	w.phase = Editing
	w.result = nil
	w.generation++
	w.grants = GrantState{}
	return nil
}

// Submit runs a whole submission against a.
func (w *Wizard) Submit(ctx context.Context, a Analyzer) error {
	data, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	result, err := a.Analyze(ctx, data)
	if err != nil {
		_ = w.FailSubmit(err)
		return err
	}
	return w.CompleteSubmit(result)
}
