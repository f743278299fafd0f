package logbridge

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"
)

// ErrHookExists is returned when a hook name is registered twice.
var ErrHookExists = ewrap.New("hook already exists")

// Entry is a completed record as seen by hooks and encoders.
type Entry struct {
	// Time is when the record was closed.
	Time time.Time
	// Level is the severity of the record.
	Level Level
	// Context is the tag the record was written under.
	Context Context
	// Message is the concatenated text of every write.
	Message string
	// Fields holds each write in order.
	Fields []Value
}

// Hook observes completed records.
type Hook interface {
	// OnLog is called once per completed record.
	OnLog(entry *Entry) error

	// Levels returns the levels this hook should be triggered for.
	Levels() []Level
}

// HookRegistry manages a collection of named hooks and provides thread-safe
// access to them.
type HookRegistry struct {
	mu sync.RWMutex

	hooks map[string]Hook
}

// NewHookRegistry creates a new hook registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: make(map[string]Hook),
	}
}

// AddHook adds a named hook to the registry.
func (r *HookRegistry) AddHook(name string, hook Hook) error {
	if hook == nil {
		return ewrap.New("hook cannot be nil").WithMetadata("name", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; exists {
		return ewrap.Wrap(ErrHookExists, "failed to add hook").WithMetadata("name", name)
	}

	r.hooks[name] = hook

	return nil
}

// RemoveHook removes a hook by name.
func (r *HookRegistry) RemoveHook(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; !exists {
		return false
	}

	delete(r.hooks, name)

	return true
}

// GetHook retrieves a hook by name.
func (r *HookRegistry) GetHook(name string) (Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, exists := r.hooks[name]

	return hook, exists
}

// Len returns the number of registered hooks.
func (r *HookRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks)
}

// GetHooksForLevel returns the hooks that trigger for level, ordered by name.
func (r *HookRegistry) GetHooksForLevel(level Level) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))

	for name, hook := range r.hooks {
		if slices.Contains(hook.Levels(), level) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	result := make([]Hook, 0, len(names))
	for _, name := range names {
		result = append(result, r.hooks[name])
	}

	return result
}

// FireHooks triggers all hooks for a given entry and returns the errors they
// produced.
func (r *HookRegistry) FireHooks(entry *Entry) []error {
	if entry == nil {
		return nil
	}

	hooks := r.GetHooksForLevel(entry.Level)

	if len(hooks) == 0 {
		return nil
	}

	var errors []error

	for _, hook := range hooks {
		err := hook.OnLog(entry)
		if err != nil {
			errors = append(errors, err)
		}
	}

	return errors
}

// StandardHook adapts a function to the Hook interface.
type StandardHook struct {
	// LevelList contains the levels this hook should trigger for.
	LevelList []Level
	// LogHandler is called for every matching record.
	LogHandler func(entry *Entry) error
}

// NewStandardHook creates a new StandardHook with the given levels and handler.
// With no levels the hook triggers for every active level.
func NewStandardHook(levels []Level, handler func(entry *Entry) error) *StandardHook {
	if len(levels) == 0 {
		levels = ActiveLevels()
	}

	return &StandardHook{
		LevelList:  levels,
		LogHandler: handler,
	}
}

// OnLog implements Hook.OnLog.
func (h *StandardHook) OnLog(entry *Entry) error {
	if h.LogHandler != nil {
		return h.LogHandler(entry)
	}

	return nil
}

// Levels implements Hook.Levels.
func (h *StandardHook) Levels() []Level {
	return h.LevelList
}
