package licm

import "time"

// Stage names a step of a whole-function run.
type Stage string

const (
	// StageNormalize inserts missing preheaders.
	StageNormalize Stage = "normalize"
	// StageAnalyze builds the dominator tree and loop nest.
	StageAnalyze Stage = "analyze"
	// StageHoist runs the engine over every loop.
	StageHoist Stage = "hoist"
)

// Status is the state of a function within a module run.
type Status string

const (
	// StatusQueued indicates the function is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the function is in the given stage.
	StatusWorking Status = "working"
	// StatusDone indicates the function finished.
	StatusDone Status = "done"
	// StatusError indicates the function failed.
	StatusError Status = "error"
)

// Event reports progress for one function.
type Event struct {
	Func    string
	Stage   Stage
	Status  Status
	Hoisted int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe
// for concurrent use when passed to RunModule.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
