package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Device is an attached input source: a gamepad, MIDI controller, OSC
// listener, or similar. Poll is called once per tick on the main thread and
// returns the control values it currently observes; the sampler merges
// across devices with first-wins conflict policy (the first device in
// registration order to report a ControlId wins ties).
type Device interface {
	Name() string
	Poll() map[string]float64
}

// InputSampler folds every attached device's per-tick readings into one
// immutable snapshot, so workers reading Snapshot() never race with the
// sampler's own per-tick mutation.
type InputSampler struct {
	mu      sync.Mutex
	devices []Device
	current Snapshot
}

// NewInputSampler returns a sampler over devices, polled in the given order.
func NewInputSampler(devices ...Device) *InputSampler {
	return &InputSampler{devices: devices, current: Snapshot{}}
}

// Tick polls every device and rebuilds the snapshot. Satisfies Tickable;
// device I/O errors are not surfaced here — a device that cannot be read
// this tick simply contributes nothing.
func (s *InputSampler) Tick(dt float64) error {
	next := make(Snapshot)
	for _, d := range s.devices {
		for id, v := range d.Poll() {
			if _, taken := next[id]; taken {
				continue // first-wins: an earlier device already claimed this control.
			}
			next[id] = v
		}
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current immutable control map. Safe to call from any
// goroutine; the returned map must not be mutated by the caller.
func (s *InputSampler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SavePersisted writes each device's opaque persisted state to a slot keyed
// by programName + device name under dir, on shutdown. Failures are
// reported wrapped in ErrResourceExhaustion and are non-fatal — the caller
// is expected to log and continue.
func SavePersisted(dir, programName string, devices []Device) error {
	type persister interface {
		PersistedState() (any, error)
	}
	for _, d := range devices {
		p, ok := d.(persister)
		if !ok {
			continue
		}
		state, err := p.PersistedState()
		if err != nil {
			return fmt.Errorf("%w: reading state for device %q: %v", ErrResourceExhaustion, d.Name(), err)
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: encoding state for device %q: %v", ErrResourceExhaustion, d.Name(), err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s.%s.json", programName, d.Name()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%w: writing %s: %v", ErrResourceExhaustion, path, err)
		}
	}
	return nil
}
