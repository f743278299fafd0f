package logbridge

import (
	"bytes"
	"slices"
	"sync"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrEncoderNotFound is returned when a named encoder is not registered.
	ErrEncoderNotFound = ewrap.New("encoder not found")
	// ErrEncoderExists is returned when a name is registered twice.
	ErrEncoderExists = ewrap.New("encoder already registered")
	// ErrInvalidEncoder is returned for an empty name or a nil encoder.
	ErrInvalidEncoder = ewrap.New("invalid encoder registration")
)

// Encoder turns a completed record into one line of output. Implementations
// may append to buf and return its bytes.
type Encoder interface {
	Encode(entry *Entry, cfg *Config, buf *bytes.Buffer) ([]byte, error)
	// EstimateSize is used to pick a pooled buffer.
	EstimateSize(entry *Entry) int
}

// EncoderRegistry maps names usable in Config.EncoderName to encoders.
type EncoderRegistry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewEncoderRegistry creates an empty registry.
func NewEncoderRegistry() *EncoderRegistry {
	return &EncoderRegistry{encoders: make(map[string]Encoder)}
}

// Register adds encoder under name. Names are unique.
func (r *EncoderRegistry) Register(name string, encoder Encoder) error {
	return r.put(name, encoder, false)
}

// Ensure registers encoder under name unless the name is already taken, in
// which case the existing encoder is kept.
func (r *EncoderRegistry) Ensure(name string, encoder Encoder) error {
	return r.put(name, encoder, true)
}

func (r *EncoderRegistry) put(name string, encoder Encoder, keepExisting bool) error {
	if name == "" || encoder == nil {
		return ewrap.Wrap(ErrInvalidEncoder, "registering encoder").
			WithMetadata("name", name).
			WithMetadata("nil_encoder", encoder == nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.encoders[name]; taken {
		if keepExisting {
			return nil
		}

		return ewrap.Wrap(ErrEncoderExists, "registering encoder").WithMetadata("name", name)
	}

	r.encoders[name] = encoder

	return nil
}

// Get returns the encoder registered under name.
func (r *EncoderRegistry) Get(name string) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encoder, ok := r.encoders[name]

	return encoder, ok
}

// Resolve is like Get but reports a missing encoder as ErrEncoderNotFound.
func (r *EncoderRegistry) Resolve(name string) (Encoder, error) {
	encoder, ok := r.Get(name)
	if !ok {
		return nil, ewrap.Wrap(ErrEncoderNotFound, "resolving encoder").
			WithMetadata("name", name).
			WithMetadata("available", r.Names())
	}

	return encoder, nil
}

// Names returns the registered names in sorted order.
func (r *EncoderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
