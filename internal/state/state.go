package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lcgerke/gitmirror/internal/errors"
)

const (
	defaultStateFile = "state.yaml"
)

// Run status values
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Manager handles the state file. The state is observability only: runs
// never read it to make decisions, so a lost or corrupted state file never
// blocks mirroring.
type Manager struct {
	stateFile string
	mu        sync.RWMutex
}

// State represents the entire state file
type State struct {
	Targets map[string]*Target `yaml:"targets"`
}

// Target records the last mirror run for one destination
type Target struct {
	URL       string    `yaml:"url"`
	Status    string    `yaml:"status"` // "succeeded", "failed"
	LastRun   time.Time `yaml:"last_run"`
	Branches  int       `yaml:"branches"`
	Tags      int       `yaml:"tags"`
	LastError string    `yaml:"last_error,omitempty"`
}

// NewManager creates a new state manager
func NewManager(stateDir string) (*Manager, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".gitmirror")
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &Manager{
		stateFile: filepath.Join(stateDir, defaultStateFile),
	}, nil
}

// Load loads the state from file
func (m *Manager) Load() (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.stateFile); os.IsNotExist(err) {
		return &State{
			Targets: make(map[string]*Target),
		}, nil
	}

	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, errors.StateCorrupted(err)
	}

	if state.Targets == nil {
		state.Targets = make(map[string]*Target)
	}

	return &state, nil
}

// Save saves the state to file
func (m *Manager) Save(state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(m.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// RecordRun stores the outcome of a mirror run for a target
func (m *Manager) RecordRun(name string, target *Target) error {
	state, err := m.Load()
	if err != nil {
		return err
	}

	target.LastRun = time.Now()
	state.Targets[name] = target
	return m.Save(state)
}

// GetTarget retrieves a target's last-run record
func (m *Manager) GetTarget(name string) (*Target, error) {
	state, err := m.Load()
	if err != nil {
		return nil, err
	}

	target, exists := state.Targets[name]
	if !exists {
		return nil, fmt.Errorf("target %s not found in state", name)
	}

	return target, nil
}

// ListTargets returns all recorded targets
func (m *Manager) ListTargets() (map[string]*Target, error) {
	state, err := m.Load()
	if err != nil {
		return nil, err
	}

	return state.Targets, nil
}
