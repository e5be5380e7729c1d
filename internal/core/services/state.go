package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driving"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

var _ driving.StateService = (*StateService)(nil)

// remoteDebounce is how long a remote write sits pending so rapid
// consecutive patches collapse into one request.
const remoteDebounce = 500 * time.Millisecond

// StateService holds the mapping state. The local store is authoritative
// and written synchronously on every patch; the remote store, when set, is
// written best-effort after a debounce window. Last write wins on both.
type StateService struct {
	local  driven.StateStore
	remote driven.StateStore

	mu      sync.Mutex
	state   domain.MappingState
	timer   *time.Timer
	pending bool
}

// NewStateService creates a state service. remote may be nil when no remote
// endpoint is configured.
func NewStateService(local, remote driven.StateStore) *StateService {
	return &StateService{
		local:  local,
		remote: remote,
		state:  domain.DefaultMappingState(),
	}
}

// Load initializes state from the local store, then merges a one-shot fetch
// from the remote store over it. A missing or unreachable remote leaves the
// local state untouched.
func (s *StateService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.local != nil {
		st, ok, err := s.local.LoadState(ctx)
		if err != nil {
			return fmt.Errorf("loading local state: %w", err)
		}
		if ok {
			s.state = st
		}
	}

	if s.remote != nil {
		st, ok, err := s.remote.LoadState(ctx)
		if err != nil {
			logger.Debug("remote state fetch failed: %v", err)
		} else if ok {
			s.state = mergeState(s.state, st)
			if s.local != nil {
				if err := s.local.SaveState(ctx, s.state); err != nil {
					return fmt.Errorf("saving merged state: %w", err)
				}
			}
		}
	}
	return nil
}

// Get returns a copy of the current state.
func (s *StateService) Get() domain.MappingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Patch applies a partial update, writes it through to the local store,
// schedules a debounced remote write, and returns the resulting state.
func (s *StateService) Patch(ctx context.Context, patch domain.StatePatch) (domain.MappingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.state)
	if s.local != nil {
		if err := s.local.SaveState(ctx, next); err != nil {
			return domain.MappingState{}, fmt.Errorf("saving state: %w", err)
		}
	}
	s.state = next
	s.scheduleRemoteLocked()
	return next.Clone(), nil
}

// Close flushes a pending remote write, if any.
func (s *StateService) Close() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	flush := s.pending
	s.pending = false
	st := s.state.Clone()
	s.mu.Unlock()

	if flush && s.remote != nil {
		if err := s.remote.SaveState(context.Background(), st); err != nil {
			logger.Debug("remote state flush failed: %v", err)
		}
	}
	return nil
}

// scheduleRemoteLocked arms (or re-arms) the debounce timer. Callers hold mu.
func (s *StateService) scheduleRemoteLocked() {
	if s.remote == nil {
		return
	}
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(remoteDebounce, s.flushRemote)
}

func (s *StateService) flushRemote() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	st := s.state.Clone()
	s.mu.Unlock()

	if err := s.remote.SaveState(context.Background(), st); err != nil {
		logger.Debug("remote state save failed: %v", err)
	}
}

// mergeState overlays remote keys onto the local state. Remote sections
// replace local ones wholesale when present; last write wins at the section
// level, matching the store format.
func mergeState(local, remote domain.MappingState) domain.MappingState {
	out := local.Clone()
	if len(remote.ColorMap) > 0 {
		out.ColorMap = cloneStringMap(remote.ColorMap)
	}
	if len(remote.CodeMap) > 0 {
		out.CodeMap = cloneStringMap(remote.CodeMap)
	}
	if len(remote.CategoryColors) > 0 {
		out.CategoryColors = cloneStringMap(remote.CategoryColors)
	}
	if len(remote.CatOverride) > 0 {
		out.CatOverride = cloneStringMap(remote.CatOverride)
	}
	if len(remote.Meta) > 0 {
		out.Meta = make(map[string]map[string]string, len(remote.Meta))
		for k, v := range remote.Meta {
			out.Meta[k] = cloneStringMap(v)
		}
	}
	if len(remote.ExtraCategories) > 0 {
		out.ExtraCategories = append([]string(nil), remote.ExtraCategories...)
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
