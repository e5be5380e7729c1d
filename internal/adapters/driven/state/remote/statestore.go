// Package remote provides a state store adapter backed by a remote HTTP
// endpoint. Writes are best-effort: the local store stays authoritative and
// the caller debounces and tolerates remote failures.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// DefaultTimeout is the request timeout for remote state calls.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for the remote state store.
type Config struct {
	// BaseURL is the remote API base URL, e.g. http://sync.example.com.
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// StateStore reads and writes mapping state at {BaseURL}/api/state.
type StateStore struct {
	client  *http.Client
	baseURL string
}

// NewStateStore creates a new remote state store.
func NewStateStore(cfg Config) *StateStore {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &StateStore{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// LoadState fetches the remote mapping state. A 404 means the remote holds
// no state yet and is not an error.
func (s *StateStore) LoadState(ctx context.Context) (domain.MappingState, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/state", nil)
	if err != nil {
		return domain.MappingState{}, false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.MappingState{}, false, fmt.Errorf("fetching remote state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.MappingState{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.MappingState{}, false, fmt.Errorf("remote state fetch: status %d: %s", resp.StatusCode, body)
	}

	state := domain.DefaultMappingState()
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return domain.MappingState{}, false, fmt.Errorf("decoding remote state: %w", err)
	}
	return state, true, nil
}

// SaveState posts the full mapping state. Last write wins.
func (s *StateStore) SaveState(ctx context.Context, state domain.MappingState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/state", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushing remote state: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote state push: status %d", resp.StatusCode)
	}
	return nil
}
