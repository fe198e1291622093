package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jcoope02/annotation-scripts/internal/validator"
	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
	cataggregates "github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Submitter creates one annotation on the remote platform. A successful call
// mutates remote state and cannot be rolled back from here.
type Submitter interface {
	CreateAnnotation(ctx context.Context, request aggregates.Request) error
}

type Configuration struct {
	Workers uint          `validate:"required,gte=1,lte=64"`
	Timeout time.Duration `validate:"required"`
}

type Service struct {
	logger      *slog.Logger
	submitter   Submitter
	config      Configuration
	submissions *prometheus.CounterVec
	durations   prometheus.Histogram
}

func New(logger *slog.Logger, submitter Submitter, config Configuration, registry *prometheus.Registry) (*Service, error) {
	err := validator.Validator.Struct(config)
	if err != nil {
		return nil, err
	}
	submissions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotations_submitted_total",
			Help: "Count the number of annotation submissions.",
		},
		[]string{"status"})
	err = registry.Register(submissions)
	if err != nil {
		return nil, err
	}
	durations := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "annotation_submission_duration_seconds",
			Help:    "Time to submit one annotation.",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1, 1.5, 2, 3, 5},
		})
	err = registry.Register(durations)
	if err != nil {
		return nil, err
	}
	return &Service{
		logger:      logger,
		submitter:   submitter,
		config:      config,
		submissions: submissions,
		durations:   durations,
	}, nil
}

// NewID generates the identifier for one annotation: a random RFC 4122
// version 4 UUID in the usual 8-4-4-4-12 form. One fresh identifier per
// request, even for otherwise identical payloads.
func NewID() string {
	return uuid.NewString()
}

// SubmitBatch creates one annotation per resolved SLO record. The shared
// timestamps are normalized first and a bad value fails the whole batch
// before any network call. Per-item failures do not stop the loop: the
// returned outcomes hold one entry per record, in record order, mixing
// successes and failures.
func (s *Service) SubmitBatch(ctx context.Context, records []cataggregates.SLO, description string, startRaw string, endRaw string) ([]aggregates.Outcome, error) {
	startTime, err := NormalizeTimestamp(startRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	endTime, err := NormalizeTimestamp(endRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}
	s.logger.Info(fmt.Sprintf("creating annotations for %d SLOs", len(records)))
	outcomes := make([]aggregates.Outcome, len(records))
	group := errgroup.Group{}
	group.SetLimit(int(s.config.Workers))
	for i := range records {
		record := records[i]
		outcome := &outcomes[i]
		group.Go(func() error {
			request := aggregates.Request{
				ID:          NewID(),
				Identity:    record.Identity,
				Description: description,
				StartTime:   startTime,
				EndTime:     endTime,
			}
			outcome.Request = request
			outcome.Err = s.submit(ctx, request)
			return nil
		})
	}
	// workers never return errors, failures are recorded per outcome
	_ = group.Wait()
	return outcomes, nil
}

func (s *Service) submit(ctx context.Context, request aggregates.Request) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	start := time.Now()
	err := s.submitter.CreateAnnotation(callCtx, request)
	s.durations.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = errors.New("timeout")
		}
		s.submissions.WithLabelValues("failure").Inc()
		s.logger.Error(fmt.Sprintf("fail to create annotation %s for SLO %s: %s", request.ID, request.Identity.Key(), err.Error()))
		return err
	}
	s.submissions.WithLabelValues("success").Inc()
	s.logger.Info(fmt.Sprintf("created annotation %s for SLO %s", request.ID, request.Identity.Key()))
	return nil
}
