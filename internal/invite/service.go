// Package invite selects the customers within an invitation radius of a
// reference point and cross-checks the two distance estimators.
package invite

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kosarica/invite-service/internal/customers"
	"github.com/kosarica/invite-service/internal/geodesy"
)

const tracerName = "github.com/kosarica/invite-service/internal/invite"

// Invitee is a selected customer.
type Invitee struct {
	UserID     int     `json:"userId"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
	Method     Method  `json:"method"`
}

// Result is the outcome of Select.
type Result struct {
	Invited    []Invitee `json:"invited"`
	Considered int       `json:"considered"`
	Fallbacks  int       `json:"fallbacks"`
	Skipped    int       `json:"skipped"`
}

// Service runs selections against a fixed reference point. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	ref     *geodesy.ReferencePoint
	config  *Config
	metrics *MetricsRecorder
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tracer }
}

// NewService creates a new invite service. A nil config uses Defaults.
func NewService(ref *geodesy.ReferencePoint, config *Config, opts ...ServiceOption) *Service {
	if config == nil {
		config = Defaults()
	}
	s := &Service{
		ref:     ref,
		config:  config,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "invite_service").Logger(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reference returns the bound reference point.
func (s *Service) Reference() *geodesy.ReferencePoint { return s.ref }

// Config returns a copy of the active configuration.
func (s *Service) Config() Config { return *s.config }

// WithConfig returns a service sharing everything but the configuration.
func (s *Service) WithConfig(config *Config) *Service {
	clone := *s
	clone.config = config
	return &clone
}

// WithReference returns a service bound to a different reference point.
func (s *Service) WithReference(ref *geodesy.ReferencePoint) *Service {
	clone := *s
	clone.ref = ref
	return &clone
}

// errSkipped marks a record dropped by PolicySkip.
var errSkipped = errors.New("record skipped after convergence failure")

type measured struct {
	km       float64
	method   Method
	fallback bool
}

// measure applies the configured method and failure policy to one target.
func (s *Service) measure(target geodesy.Coordinate) (measured, error) {
	if s.config.Method == MethodSpherical {
		s.metrics.RecordCalculation(MethodSpherical)
		return measured{km: s.ref.DistanceKmSpherical(target), method: MethodSpherical}, nil
	}

	s.metrics.RecordCalculation(MethodVincenty)
	sol, err := s.ref.Solve(target)
	if err == nil {
		s.metrics.RecordIterations(sol.Iterations)
		return measured{km: sol.Kilometers(), method: MethodVincenty}, nil
	}
	if !errors.Is(err, geodesy.ErrNoConvergence) {
		return measured{}, err
	}

	s.metrics.RecordConvergenceFailure()
	if s.config.OnConvergenceFailure == PolicySkip {
		s.logger.Warn().Err(err).Msg("Skipping record")
		return measured{}, errSkipped
	}

	s.metrics.RecordFallback()
	s.metrics.RecordCalculation(MethodSpherical)
	s.logger.Warn().Err(err).Msg("Falling back to spherical distance")
	return measured{km: s.ref.DistanceKmSpherical(target), method: MethodSpherical, fallback: true}, nil
}

// Select returns the customers whose distance from the reference point is
// at most MaxDistanceKm, sorted by user id. When a user id appears more than
// once, the last in-range record wins.
func (s *Service) Select(ctx context.Context, records []customers.Customer) (*Result, error) {
	startTime := time.Now()
	defer func() {
		s.metrics.RecordDuration("select", time.Since(startTime))
	}()

	ctx, span := s.tracer.Start(ctx, "invite.Select", trace.WithAttributes(
		attribute.Int("invite.records", len(records)),
		attribute.Float64("invite.max_distance_km", s.config.MaxDistanceKm),
		attribute.String("invite.method", string(s.config.Method)),
	))
	defer span.End()

	result := &Result{Invited: make([]Invitee, 0)}
	byID := make(map[int]Invitee)

	for _, c := range records {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
		result.Considered++

		m, err := s.measure(c.Coordinate())
		if err != nil {
			if errors.Is(err, errSkipped) {
				result.Skipped++
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if m.fallback {
			result.Fallbacks++
		}

		if m.km <= s.config.MaxDistanceKm {
			byID[c.UserID] = Invitee{
				UserID:     c.UserID,
				Name:       c.Name,
				DistanceKm: m.km,
				Method:     m.method,
			}
		}
	}

	for _, inv := range byID {
		result.Invited = append(result.Invited, inv)
	}
	sort.Slice(result.Invited, func(i, j int) bool {
		return result.Invited[i].UserID < result.Invited[j].UserID
	})

	s.metrics.RecordInvited(len(result.Invited))
	span.SetAttributes(attribute.Int("invite.invited", len(result.Invited)))

	s.logger.Debug().
		Int("considered", result.Considered).
		Int("invited", len(result.Invited)).
		Int("fallbacks", result.Fallbacks).
		Int("skipped", result.Skipped).
		Dur("duration", time.Since(startTime)).
		Msg("Selection complete")

	return result, nil
}

// Measurement holds both estimates for one target.
type Measurement struct {
	Origin      geodesy.Coordinate `json:"origin"`
	Target      geodesy.Coordinate `json:"target"`
	SphericalKm float64            `json:"sphericalKm"`
	VincentyKm  *float64           `json:"vincentyKm,omitempty"`
	Iterations  int                `json:"iterations"`
	Converged   bool               `json:"converged"`
	Error       string             `json:"error,omitempty"`
}

// Distance measures target with both estimators. A convergence failure is
// reported in the measurement, not as an error.
func (s *Service) Distance(ctx context.Context, target geodesy.Coordinate) (*Measurement, error) {
	startTime := time.Now()
	defer func() {
		s.metrics.RecordDuration("distance", time.Since(startTime))
	}()

	_, span := s.tracer.Start(ctx, "invite.Distance")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &Measurement{
		Origin:      s.ref.Origin(),
		Target:      target,
		SphericalKm: s.ref.DistanceKmSpherical(target),
	}
	s.metrics.RecordCalculation(MethodSpherical)
	s.metrics.RecordCalculation(MethodVincenty)

	sol, err := s.ref.Solve(target)
	m.Iterations = sol.Iterations
	if err != nil {
		if !errors.Is(err, geodesy.ErrNoConvergence) {
			span.RecordError(err)
			return nil, err
		}
		s.metrics.RecordConvergenceFailure()
		m.Error = err.Error()
		span.SetAttributes(attribute.Bool("invite.converged", false))
		return m, nil
	}

	s.metrics.RecordIterations(sol.Iterations)
	km := sol.Kilometers()
	m.VincentyKm = &km
	m.Converged = true
	return m, nil
}
