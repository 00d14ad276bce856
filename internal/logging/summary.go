package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RunSummary collects the identity, configuration, per-stage timings and
// outcome of a single invocation, then emits them as one structured zerolog
// event. One summary line per run is enough to reconstruct what happened when
// the tool is launched from a hotkey with no terminal attached.
type RunSummary struct {
	runID   string
	version string
	started time.Time

	stages   []stageTiming
	config   map[string]string
	features map[string]bool

	outcome string
	errMsg  string
}

type stageTiming struct {
	name     string
	duration time.Duration
}

// NewRunSummary creates a RunSummary for the given run ID.
func NewRunSummary(runID string) *RunSummary {
	return &RunSummary{
		runID:    runID,
		started:  time.Now(),
		config:   make(map[string]string),
		features: make(map[string]bool),
	}
}

// RunID returns the ID the summary was created with.
func (s *RunSummary) RunID() string {
	return s.runID
}

// Version sets the build version baked into the binary.
func (s *RunSummary) Version(v string) *RunSummary {
	s.version = v
	return s
}

// Stage records how long a pipeline stage took. Stages are logged in the
// order they were recorded.
func (s *RunSummary) Stage(name string, d time.Duration) *RunSummary {
	s.stages = append(s.stages, stageTiming{name: name, duration: d})
	return s
}

// Feature registers a boolean feature flag (e.g. "stripCodeFences").
func (s *RunSummary) Feature(name string, enabled bool) *RunSummary {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
// Never pass the API key here.
func (s *RunSummary) Config(key, value string) *RunSummary {
	s.config[key] = value
	return s
}

// Outcome records how the run terminated. err may be nil.
func (s *RunSummary) Outcome(outcome string, err error) *RunSummary {
	s.outcome = outcome
	if err != nil {
		s.errMsg = err.Error()
	} else {
		s.errMsg = ""
	}
	return s
}

// Log emits a single structured log event with all collected information.
// Failed runs are logged at WARN so they stand out at the default level.
func (s *RunSummary) Log() {
	evt := log.Info()
	if s.errMsg != "" {
		evt = log.Warn()
	}

	run := zerolog.Dict().
		Str("id", s.runID).
		Str("goVersion", runtime.Version()).
		Str("os", runtime.GOOS)
	if s.version != "" {
		run = run.Str("version", s.version)
	}
	evt = evt.Dict("run", run)

	if len(s.stages) > 0 {
		arr := zerolog.Arr()
		for _, st := range s.stages {
			arr = arr.Dict(zerolog.Dict().Str("name", st.name).Dur("duration", st.duration))
		}
		evt = evt.Array("stages", arr)
	}

	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}

	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}

	if s.errMsg != "" {
		evt = evt.Str("error", s.errMsg)
	}

	evt.Str("outcome", s.outcome).
		Dur("total", time.Since(s.started)).
		Msg("Run complete")
}

// dictFromMap converts a map[string]string into a zerolog.Event (Dict).
func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
