package metrics

// ProbeKind identifies the kind of check made while classifying an install.
type ProbeKind string

const (
	ProbeTableExists ProbeKind = "table_exists"
	ProbeRowCount    ProbeKind = "row_count"
	ProbeOption      ProbeKind = "option"
)

// Classification sources.
const (
	SourceCached   = "cached"
	SourceDetected = "detected"
)

// InitOutcome labels the result of a fresh-install initialization attempt.
type InitOutcome string

const (
	InitCompleted   InitOutcome = "completed"
	InitAlreadyDone InitOutcome = "already_done"
	InitNotFresh    InitOutcome = "not_fresh"
	InitNoCreator   InitOutcome = "no_creator"
	InitFailed      InitOutcome = "failed"
)

// Recorder defines observability hooks for install classification.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	IncProbe(kind ProbeKind)
	IncClassification(state, source string)
	IncInitialization(outcome InitOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncProbe(ProbeKind)                {}
func (NoopRecorder) IncClassification(string, string) {}
func (NoopRecorder) IncInitialization(InitOutcome)    {}
