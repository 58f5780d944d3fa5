// Package telemetry carries per-request trace identifiers through context.
package telemetry

import (
	"context"

	"github.com/companionhealth/companion/sdk/cryptids"
)

type telKey int

const traceIDKey telKey = iota + 1

const noTrace = "--------NOTRACE--------"

type Telemetry struct{}

func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID attaches a fresh trace id to the context.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	tid, err := cryptids.GenerateID()
	if err != nil {
		return context.WithValue(ctx, traceIDKey, noTrace)
	}
	return context.WithValue(ctx, traceIDKey, tid)
}

// GetTraceID returns the trace id for the request, or a fixed placeholder
// when none was set.
func (t Telemetry) GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return noTrace
	}
	return v
}
