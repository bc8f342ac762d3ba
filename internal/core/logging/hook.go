package logging

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and task_id from the event's context onto the
// event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		e.Str("request_id", requestID)
	}

	if taskID, ok := GetTaskID(ctx); ok {
		e.Int64("task_id", taskID)
	}
}

// EchoHook mirrors the message of every event at or above Min to W as a
// single plain line. The log file keeps the full event.
type EchoHook struct {
	W   io.Writer
	Min zerolog.Level
}

// Run writes "level: message" for qualifying events.
func (h EchoHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if h.W == nil || level < h.Min || level == zerolog.NoLevel || msg == "" {
		return
	}
	_, _ = fmt.Fprintf(h.W, "%s: %s\n", level, msg)
}
