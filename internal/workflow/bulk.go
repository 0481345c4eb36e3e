package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// RowResult is the outcome of one selected row. Err is nil on success.
type RowResult struct {
	ID  string
	Err error
}

// BulkReport lists the row outcomes in selection order.
type BulkReport struct {
	Results []RowResult
}

func (r BulkReport) Succeeded() []string {
	var ids []string
	for _, res := range r.Results {
		if res.Err == nil {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

func (r BulkReport) Failed() []RowResult {
	var out []RowResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// SubmitSelected submits every selected row. One failing row does not stop
// the others.
func (w *Workflows) SubmitSelected(ctx context.Context) (BulkReport, error) {
	return w.bulk(ctx, "submit_request", func(ctx context.Context, id string) error {
		req, err := w.mutable(ctx, "submit_request", id)
		if err != nil {
			return err
		}
		if err := w.submittable(ctx, req); err != nil {
			return err
		}
		return w.run(ctx, w.submitStep(id, ""))
	})
}

// DeleteSelected deletes every selected row. One failing row does not stop
// the others.
func (w *Workflows) DeleteSelected(ctx context.Context) (BulkReport, error) {
	return w.bulk(ctx, "delete_request", func(ctx context.Context, id string) error {
		if _, err := w.mutable(ctx, "delete_request", id); err != nil {
			return err
		}
		return w.run(ctx, w.deleteStep(id, ""))
	})
}

// bulk asks once for the whole selection and then runs row for each id on
// at most w.workers goroutines.
func (w *Workflows) bulk(
	ctx context.Context,
	name string,
	row func(ctx context.Context, id string) error,
) (BulkReport, error) {
	ctx, span := w.Tracer.Start(ctx, "workflow.bulk."+name)
	defer span.End()
	startTime := time.Now()

	ids := w.view.Selection()
	span.SetAttributes(attribute.Int("rows", len(ids)))
	if len(ids) == 0 {
		return BulkReport{}, w.reject(ctx, name, nothingSelected(), ErrNothingSelected)
	}
	if err := w.writable(ctx, name); err != nil {
		return BulkReport{}, err
	}

	ok, err := w.confirm.Confirm(ctx, bulkPrompt(name, len(ids)))
	if err != nil {
		return BulkReport{}, fmt.Errorf("%s: confirm: %w", name, err)
	}
	if !ok {
		w.record(ctx, name, outcomeDeclined)
		return BulkReport{}, ErrDeclined
	}

	w.Logger.Infow("Starting bulk workflow", "workflow", name, "rows", len(ids), "workers", w.workers)
	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetWriter(w.ProgressWriter),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]RowResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, id := range ids {
		g.Go(func() error {
			rowCtx, rowSpan := w.Tracer.Start(gctx, "workflow.bulk.row", trace.WithAttributes(
				attribute.String("id", id),
			))
			defer rowSpan.End()

			err := row(rowCtx, id)
			results[i] = RowResult{ID: id, Err: err}
			w.bulkRows.Add(rowCtx, 1, metric.WithAttributes(
				attribute.String("workflow", name),
				attribute.String("outcome", rowOutcome(err)),
			))
			_ = bar.Add(1)
			// rows are independent, a failure must not cancel the others
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	report := BulkReport{Results: results}
	w.Logger.Infow("Bulk workflow finished", "workflow", name,
		"succeeded", len(report.Succeeded()),
		"failed", len(report.Failed()),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return report, nil
}

func rowOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrSubmitted), errors.Is(err, ErrIncomplete), errors.Is(err, ErrNotFound):
		return outcomeRejected
	case errors.Is(err, ErrInFlight):
		return outcomeBusy
	}
	return outcomeFailed
}
