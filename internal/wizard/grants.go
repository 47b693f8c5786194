package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"go.uber.org/zap"
)

// GrantFailureMessage is shown when the grant fetch fails.
const GrantFailureMessage = "Could not load grant recommendations."

type GrantPhase int

const (
	GrantsNotRequested GrantPhase = iota
	GrantsFetching
	GrantsLoaded
	GrantsFailed
)

func (p GrantPhase) String() string {
	switch p {
	case GrantsNotRequested:
		return "not requested"
	case GrantsFetching:
		return "fetching"
	case GrantsLoaded:
		return "loaded"
	case GrantsFailed:
		return "failed"
	}
	return fmt.Sprintf("GrantPhase(%d)", int(p))
}

// GrantState is the grant fetch sub-state of the results view. Grants is only
// meaningful when loaded and Message only when failed.
type GrantState struct {
	Phase   GrantPhase
	Grants  []model.GrantSuggestion
	Message string
}

// Ticket identifies one grant fetch. A ticket issued before the last Back
// no longer matches and its outcome is dropped.
type Ticket struct {
	generation uint64
}

var ErrGrantsUnavailable = errors.New("grant suggestions can not be requested now")

func (w *Wizard) Grants() GrantState {
	return w.grants
}

// BeginGrantFetch starts the fetch. It is allowed once per results view.
func (w *Wizard) BeginGrantFetch() (model.ProjectData, Ticket, error) {
	if w.phase != ResultsShown {
		return model.ProjectData{}, Ticket{}, fmt.Errorf("%w: no results shown", ErrGrantsUnavailable)
	}
	if w.grants.Phase != GrantsNotRequested {
		return model.ProjectData{}, Ticket{}, fmt.Errorf("%w: already %s", ErrGrantsUnavailable, w.grants.Phase)
	}
	w.grants = GrantState{Phase: GrantsFetching}
	return w.data, Ticket{generation: w.generation}, nil
}

func (w *Wizard) isLive(t Ticket) bool {
	return w.phase == ResultsShown && t.generation == w.generation && w.grants.Phase == GrantsFetching
}

// ResolveGrants stores the fetched list. It reports false when the ticket is
// stale and the list was dropped.
func (w *Wizard) ResolveGrants(t Ticket, grants []model.GrantSuggestion) bool {
	if !w.isLive(t) {
		w.logger.Debug("dropping stale grant suggestions", zap.Int("grants", len(grants)))
		return false
	}
	if grants == nil {
		grants = []model.GrantSuggestion{}
	}
	w.grants = GrantState{Phase: GrantsLoaded, Grants: grants}
	return true
}

// FailGrants records a failed fetch. It reports false for a stale ticket.
func (w *Wizard) FailGrants(t Ticket, err error) bool {
	if !w.isLive(t) {
		w.logger.Debug("dropping stale grant failure", zap.Error(err))
		return false
	}
	w.logger.Error("grant fetch failed", zap.Error(err))
	w.grants = GrantState{Phase: GrantsFailed, Message: GrantFailureMessage}
	return true
}

// FetchGrants runs a whole grant fetch against a.
func (w *Wizard) FetchGrants(ctx context.Context, a Analyzer) error {
	data, ticket, err := w.BeginGrantFetch()
	if err != nil {
		return err
	}
	grants, err := a.MicroGrants(ctx, data)
	if err != nil {
		w.FailGrants(ticket, err)
		return err
	}
	w.ResolveGrants(ticket, grants)
	return nil
}
