package invite

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kosarica/invite-service/internal/customers"
)

// ComparisonRow is the cross-validation of one record.
type ComparisonRow struct {
	UserID      int     `json:"userId"`
	Name        string  `json:"name"`
	SphericalKm float64 `json:"sphericalKm"`
	VincentyKm  float64 `json:"vincentyKm"` // zero when Error is set
	DeltaKm     float64 `json:"deltaKm"`
	Passed      bool    `json:"passed"`
	Error       string  `json:"error,omitempty"`
}

// Comparison is the outcome of Compare.
type Comparison struct {
	ToleranceKm float64         `json:"toleranceKm"`
	Rows        []ComparisonRow `json:"rows"`
	Passed      int             `json:"passed"`
	Failed      int             `json:"failed"`
}

// Compare measures every record with both estimators and checks that they
// agree within CompareToleranceKm. Records whose Vincenty run does not
// converge are reported as failed rows.
func (s *Service) Compare(ctx context.Context, records []customers.Customer) (*Comparison, error) {
	startTime := time.Now()
	defer func() {
		s.metrics.RecordDuration("compare", time.Since(startTime))
	}()

	ctx, span := s.tracer.Start(ctx, "invite.Compare", trace.WithAttributes(
		attribute.Int("invite.records", len(records)),
		attribute.Float64("invite.tolerance_km", s.config.CompareToleranceKm),
	))
	defer span.End()

	out := &Comparison{
		ToleranceKm: s.config.CompareToleranceKm,
		Rows:        make([]ComparisonRow, 0, len(records)),
	}

	for _, c := range records {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}

		target := c.Coordinate()
		row := ComparisonRow{
			UserID:      c.UserID,
			Name:        c.Name,
			SphericalKm: s.ref.DistanceKmSpherical(target),
		}
		s.metrics.RecordCalculation(MethodSpherical)
		s.metrics.RecordCalculation(MethodVincenty)

		sol, err := s.ref.Solve(target)
		if err != nil {
			s.metrics.RecordConvergenceFailure()
			row.Error = err.Error()
		} else {
			s.metrics.RecordIterations(sol.Iterations)
			row.VincentyKm = sol.Kilometers()
			row.DeltaKm = math.Abs(row.SphericalKm - row.VincentyKm)
			row.Passed = row.DeltaKm <= s.config.CompareToleranceKm
		}

		if row.Passed {
			out.Passed++
		} else {
			out.Failed++
		}
		out.Rows = append(out.Rows, row)
	}

	span.SetAttributes(attribute.Int("invite.failed", out.Failed))
	return out, nil
}
