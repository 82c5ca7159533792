// Package logger records execution events so embedders can observe what
// the executor spawned and how it exited.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Event is a single execution event. Only the fields relevant to Kind are
// populated.
type Event struct {
	TimestampMicros int64    `json:"timestamp_micros"`
	Kind            string   `json:"kind"`
	Program         string   `json:"program,omitempty"`
	Args            []string `json:"args,omitempty"`
	Stages          int      `json:"stages,omitempty"`
	ExitStatus      int      `json:"exit_status,omitempty"`
	Error           string   `json:"error,omitempty"`
}

const (
	KindCommandStart  = "command_start"
	KindCommandExit   = "command_exit"
	KindPipelineStart = "pipeline_start"
	KindSpawnError    = "spawn_error"
)

// Recorder is a callback that stores events in an external datastore.
type Recorder func(e *Event) error

// Logger captures execution events through a pluggable recorder.
type Logger struct {
	Record Recorder
	now    func() time.Time
}

// NewJSONLinesRecorder creates a Logger that exports events in newline
// delimited JSON object format.
func NewJSONLinesRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(e *Event) error {
			entry, err := json.Marshal(e)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
		now: time.Now,
	}
}

// Nop creates a Logger that discards every event.
func Nop() *Logger {
	return &Logger{Record: func(*Event) error { return nil }, now: time.Now}
}

func (l *Logger) record(e *Event) {
	if l == nil || l.Record == nil {
		return
	}
	now := l.now
	if now == nil {
		now = time.Now
	}
	e.TimestampMicros = now().UnixMicro()
	// Event recording must never fail execution.
	_ = l.Record(e)
}

// CommandStart records a process spawn.
func (l *Logger) CommandStart(program string, args []string) {
	l.record(&Event{Kind: KindCommandStart, Program: program, Args: args})
}

// CommandExit records a process exit status.
func (l *Logger) CommandExit(program string, status int) {
	l.record(&Event{Kind: KindCommandExit, Program: program, ExitStatus: status})
}

// PipelineStart records the stage count of a pipeline before its stages
// launch.
func (l *Logger) PipelineStart(stages int) {
	l.record(&Event{Kind: KindPipelineStart, Stages: stages})
}

// SpawnError records a failed process spawn.
func (l *Logger) SpawnError(program string, err error) {
	l.record(&Event{Kind: KindSpawnError, Program: program, Error: err.Error()})
}
