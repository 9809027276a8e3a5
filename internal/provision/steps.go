package provision

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/simonvc/lbcoa/internal/logger"
)

var tracer = otel.Tracer("lbcoa/provision")

// runner executes named steps against one event, recording each in the report.
type runner struct {
	repo Repository
	ev   *Event
}

// fatal runs fn and returns its error to the caller.
func (r runner) fatal(ctx context.Context, name string, def Kind, fn func(ctx context.Context) error) error {
	return r.run(ctx, name, def, fn)
}

// isolated runs fn inside a savepoint. A failure undoes fn's own writes, is logged and
// recorded, and is not returned: earlier and later steps are unaffected.
func (r runner) isolated(ctx context.Context, name string, fn func(ctx context.Context) error) {
	err := r.run(ctx, name, KindPartialProvisioning, func(ctx context.Context) error {
		return r.repo.Savepoint(ctx, fn)
	})
	if err != nil {
		logger.FromContext(ctx).Warnw("provisioning step failed",
			"company", r.ev.Company.Name, "step", name, "kind", KindOf(err, KindPartialProvisioning), "error", err)
	}
}

func (r runner) run(ctx context.Context, name string, def Kind, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "provision."+name, trace.WithAttributes(
		attribute.String("company", r.ev.Company.Name),
		attribute.String("run_id", r.ev.Report.RunID),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	r.ev.Report.record(name, err, def, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err, def)))
	}
	return err
}

func (r runner) skip(name, reason string) {
	r.ev.Report.skip(name, reason)
}
