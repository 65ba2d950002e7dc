package merge

// NoopReporter discards everything. Useful for CI or for embedding the engine
// where only the returned Result matters.
type NoopReporter struct{}

// NewNoopReporter returns a Reporter that drops every event.
func NewNoopReporter() *NoopReporter { return &NoopReporter{} }

func (NoopReporter) Event(Event)           {}
func (NoopReporter) Progress(int64, int64) {}
func (NoopReporter) Summary(Result)        {}
