package recorder

import (
	"sync"
	"sync/atomic"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrNotInitialized is raised when the recorder is fetched before one was installed.
	ErrNotInitialized = ewrap.New("recorder not initialized")
	// ErrAlreadyInstalled is returned when a second recorder is installed.
	ErrAlreadyInstalled = ewrap.New("recorder already installed")
	// ErrNilRecorder is returned when installing a nil recorder.
	ErrNilRecorder = ewrap.New("recorder cannot be nil")
)

type installed struct {
	recorder Recorder
}

//nolint:gochecknoglobals
var (
	current   atomic.Pointer[installed]
	installMu sync.Mutex
)

// Install makes r the process-wide recorder. It succeeds once per process.
func Install(r Recorder) error {
	if r == nil {
		return ErrNilRecorder
	}

	installMu.Lock()
	defer installMu.Unlock()

	if current.Load() != nil {
		return ewrap.Wrap(ErrAlreadyInstalled, "failed to install recorder")
	}

	current.Store(&installed{recorder: r})

	return nil
}

// Get returns the installed recorder. Logging before the runtime has
// installed a recorder is a programming error, so Get panics with
// ErrNotInitialized in that case.
func Get() Recorder {
	r, ok := Lookup()
	if !ok {
		panic(ewrap.Wrap(ErrNotInitialized, "no recorder installed"))
	}

	return r
}

// Lookup returns the installed recorder and whether there is one.
func Lookup() (Recorder, bool) {
	holder := current.Load()
	if holder == nil {
		return nil, false
	}

	return holder.recorder, true
}

// ResetForTesting uninstalls the current recorder. It exists for tests only.
func ResetForTesting() {
	installMu.Lock()
	defer installMu.Unlock()

	current.Store(nil)
}
