package bridge

import (
	"os"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// Builder configures a Bridge. The zero value is not usable; start from
// NewBuilder or FromConfig.
type Builder struct {
	ctx        logbridge.Context
	showModule bool
	showFile   bool
	showLine   bool
	configPath string
	rec        recorder.Recorder
	gate       *layoutGate
}

// NewBuilder returns a builder with the DefaultContext tag, no caller prefix
// and no configuration path.
func NewBuilder() *Builder {
	return &Builder{
		ctx:  logbridge.MustContext(logbridge.DefaultContext),
		gate: &processLayout,
	}
}

// FromConfig seeds a builder with the bridge section of cfg. An empty
// context keeps DefaultContext.
func FromConfig(cfg *logbridge.Config) *Builder {
	builder := NewBuilder().
		ShowModule(cfg.ShowModule).
		ShowFile(cfg.ShowFile).
		ShowLine(cfg.ShowLine).
		Config(cfg.ConfigPath)

	if cfg.Context != "" {
		builder.Context(cfg.Context)
	}

	return builder
}

// Context sets the tag records are written under. Tags longer than four bytes
// are truncated; a non-ASCII tag panics with logbridge.ErrNonASCIIContext.
func (b *Builder) Context(context string) *Builder {
	b.ctx = logbridge.MustContext(context)

	return b
}

// ShowModule toggles the calling package in the record prefix.
func (b *Builder) ShowModule(show bool) *Builder {
	b.showModule = show

	return b
}

// ShowFile toggles the calling file in the record prefix.
func (b *Builder) ShowFile(show bool) *Builder {
	b.showFile = show

	return b
}

// ShowLine toggles the calling line in the record prefix.
func (b *Builder) ShowLine(show bool) *Builder {
	b.showLine = show

	return b
}

// Config sets the recorder configuration file exported by SetAsDefault.
func (b *Builder) Config(path string) *Builder {
	b.configPath = path

	return b
}

// WithRecorder uses r instead of the process-wide recorder.
func (b *Builder) WithRecorder(r recorder.Recorder) *Builder {
	b.rec = r

	return b
}

// Build returns the bridge. Without WithRecorder it uses recorder.Get, which
// panics when no recorder was installed. The slot layout is verified before
// the bridge is returned; a mismatch panics with ErrSlotLayoutMismatch.
func (b *Builder) Build() *Bridge {
	rec := b.rec
	if rec == nil {
		rec = recorder.Get()
	}

	if b.gate == nil || b.gate == &processLayout {
		EnsureLayout(rec)
	} else if err := b.gate.check(rec); err != nil {
		panic(err)
	}

	return &Bridge{
		rec:        rec,
		ctx:        b.ctx,
		showModule: b.showModule,
		showFile:   b.showFile,
		showLine:   b.showLine,
	}
}

// SetAsDefault builds the bridge and installs it as the process-wide default
// logger. The configuration path is exported through logbridge.ConfigFileEnv
// first, unless that variable is already set or the path is empty. Installing
// a second default logger panics with logbridge.ErrDefaultAlreadySet.
//
// The bridge uses the recorder that is installed already, so the exported
// path only reaches recorders created after this call, for example through
// configloader.Load.
func (b *Builder) SetAsDefault() *Bridge {
	if b.configPath != "" {
		if _, set := os.LookupEnv(logbridge.ConfigFileEnv); !set {
			err := os.Setenv(logbridge.ConfigFileEnv, b.configPath)
			if err != nil {
				panic(ewrap.Wrap(err, "failed to export recorder configuration path").
					WithMetadata("path", b.configPath))
			}
		}
	}

	bridge := b.Build()

	err := logbridge.SetDefault(bridge)
	if err != nil {
		panic(err)
	}

	return bridge
}
