package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const generationEventsTable = "generation_events"

var generationEventColumns = []string{
	"id", "created_at", "topic", "subject", "level", "variant", "outcome", "reason",
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(generationEventsTable).
		Columns(generationEventColumns[1:]...).
		Values(
			time.Now().UnixMilli(), data.Topic, data.Subject, data.Level,
			data.Variant, data.Outcome, data.Reason,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(generationEventColumns...).
		From(entsql.Table(generationEventsTable)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("variant", opts.Purpose))
	}
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var events []GenerationEvent
	for rows.Next() {
		var e GenerationEvent
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Topic, &e.Subject, &e.Level, &e.Variant, &e.Outcome, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GenerationCounts(ctx context.Context) ([]OutcomeCount, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select("variant", "outcome", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(generationEventsTable)).
		GroupBy("variant", "outcome").
		OrderBy("variant", "outcome").
		Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query generation counts: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var c OutcomeCount
		if err := rows.Scan(&c.Variant, &c.Outcome, &c.Count); err != nil {
			return nil, fmt.Errorf("scan generation count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
