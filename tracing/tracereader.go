package tracing

import (
	"context"
	"fmt"

	"github.com/sarchlab/plcsim/datarecording"
)

// TickQuery selects the tick rows of one session.
type TickQuery struct {
	Session string

	// StartCycle and EndCycle bound the cycles as [StartCycle, EndCycle).
	// EndCycle 0 means no upper bound.
	StartCycle uint64
	EndCycle   uint64

	Limit int
}

// TraceReader reads back recordings written by TickTracer.
type TraceReader struct {
	reader datarecording.DataReader
}

// NewTraceReader wraps a DataReader opened on a recording.
func NewTraceReader(reader datarecording.DataReader) *TraceReader {
	reader.MapTable(SessionTableName, SessionRow{})
	reader.MapTable(TickTableName, TickRow{})

	return &TraceReader{reader: reader}
}

// Sessions lists the runs stored in the recording.
func (r *TraceReader) Sessions(ctx context.Context) ([]SessionRow, error) {
	results, _, err := r.reader.Query(ctx, SessionTableName,
		datarecording.QueryParams{})
	if err != nil {
		return nil, fmt.Errorf("tracing: reading sessions: %w", err)
	}

	sessions := make([]SessionRow, 0, len(results))
	for _, res := range results {
		sessions = append(sessions, *res.(*SessionRow))
	}

	return sessions, nil
}

// Ticks returns the rows matching q in cycle order, together with the number
// of matching rows before Limit applies.
func (r *TraceReader) Ticks(
	ctx context.Context,
	q TickQuery,
) ([]TickRow, int, error) {
	params := datarecording.QueryParams{
		Where:   "Session = ? AND Cycle >= ?",
		Args:    []any{q.Session, q.StartCycle},
		OrderBy: "Cycle",
		Limit:   q.Limit,
	}

	if q.EndCycle > 0 {
		params.Where += " AND Cycle < ?"
		params.Args = append(params.Args, q.EndCycle)
	}

	results, total, err := r.reader.Query(ctx, TickTableName, params)
	if err != nil {
		return nil, 0, fmt.Errorf("tracing: reading ticks: %w", err)
	}

	rows := make([]TickRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, *res.(*TickRow))
	}

	return rows, total, nil
}

// Close releases the underlying reader.
func (r *TraceReader) Close() error {
	return r.reader.Close()
}
