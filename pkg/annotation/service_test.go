package annotation_test

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jcoope02/annotation-scripts/pkg/annotation"
	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
	cataggregates "github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type fakeSubmitter struct {
	mutex    sync.Mutex
	requests []aggregates.Request
	failFor  map[string]error
	block    bool
}

func (f *fakeSubmitter) CreateAnnotation(ctx context.Context, request aggregates.Request) error {
	f.mutex.Lock()
	f.requests = append(f.requests, request)
	f.mutex.Unlock()
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err, ok := f.failFor[request.Identity.Key()]; ok {
		return err
	}
	return nil
}

func records(names ...string) []cataggregates.SLO {
	result := []cataggregates.SLO{}
	for _, name := range names {
		result = append(result, cataggregates.SLO{
			Identity: cataggregates.Identity{Name: name, Project: "payments"},
		})
	}
	return result
}

func newService(t *testing.T, submitter annotation.Submitter, config annotation.Configuration) *annotation.Service {
	t.Helper()
	service, err := annotation.New(slog.Default(), submitter, config, prometheus.NewRegistry())
	assert.NoError(t, err)
	return service
}

func TestSubmitBatchPartialFailure(t *testing.T) {
	submitter := &fakeSubmitter{
		failFor: map[string]error{"payments/b": errors.New("rejected by the server")},
	}
	service := newService(t, submitter, annotation.Configuration{Workers: 1, Timeout: time.Second})

	outcomes, err := service.SubmitBatch(context.Background(), records("a", "b", "c"), "maintenance", "2025-01-27T10:00:00Z", "2025-01-27T11:00:00Z")
	assert.NoError(t, err)
	assert.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Success())
	assert.False(t, outcomes[1].Success())
	assert.True(t, outcomes[2].Success())
	assert.Equal(t, "a", outcomes[0].Request.Identity.Name)
	assert.Equal(t, "b", outcomes[1].Request.Identity.Name)
	assert.Equal(t, "c", outcomes[2].Request.Identity.Name)

	summary := annotation.Summarize(outcomes)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Failures, 1)
	assert.Equal(t, "b", summary.Failures[0].Identity.Name)
	assert.Equal(t, "rejected by the server", summary.Failures[0].Reason)
}

func TestSubmitBatchBuildsOneRequestPerRecord(t *testing.T) {
	submitter := &fakeSubmitter{}
	service := newService(t, submitter, annotation.Configuration{Workers: 4, Timeout: time.Second})

	outcomes, err := service.SubmitBatch(context.Background(), records("a", "b", "c", "d"), "incident", "2025-01-27T10:00:00:11Z", "2025-01-27T11:00:00Z")
	assert.NoError(t, err)
	assert.Len(t, submitter.requests, 4)

	ids := make(map[string]bool)
	for _, outcome := range outcomes {
		request := outcome.Request
		// identifiers are per-instance, never shared across requests
		assert.False(t, ids[request.ID])
		ids[request.ID] = true
		assert.Equal(t, "incident", request.Description)
		// the repairable start time was normalized once for the whole batch
		assert.Equal(t, "2025-01-27T10:00:00Z", request.StartTime)
		assert.Equal(t, "2025-01-27T11:00:00Z", request.EndTime)
	}
	// outcome order reflects record order, not completion order
	assert.Equal(t, "a", outcomes[0].Request.Identity.Name)
	assert.Equal(t, "d", outcomes[3].Request.Identity.Name)
}

func TestSubmitBatchFailsFastOnBadTimestamp(t *testing.T) {
	submitter := &fakeSubmitter{}
	service := newService(t, submitter, annotation.Configuration{Workers: 1, Timeout: time.Second})

	_, err := service.SubmitBatch(context.Background(), records("a", "b"), "x", "not-a-date", "2025-01-27T11:00:00Z")
	assert.ErrorContains(t, err, "invalid start time")
	assert.Empty(t, submitter.requests)

	_, err = service.SubmitBatch(context.Background(), records("a", "b"), "x", "2025-01-27T10:00:00Z", "not-a-date")
	assert.ErrorContains(t, err, "invalid end time")
	assert.Empty(t, submitter.requests)
}

func TestSubmitBatchTimeout(t *testing.T) {
	submitter := &fakeSubmitter{block: true}
	service := newService(t, submitter, annotation.Configuration{Workers: 2, Timeout: 20 * time.Millisecond})

	outcomes, err := service.SubmitBatch(context.Background(), records("a", "b"), "x", "2025-01-27T10:00:00Z", "2025-01-27T11:00:00Z")
	assert.NoError(t, err)
	assert.Len(t, outcomes, 2)
	for _, outcome := range outcomes {
		assert.False(t, outcome.Success())
		assert.Equal(t, "timeout", outcome.Err.Error())
	}
}

func TestSubmitBatchEmpty(t *testing.T) {
	submitter := &fakeSubmitter{}
	service := newService(t, submitter, annotation.Configuration{Workers: 1, Timeout: time.Second})

	outcomes, err := service.SubmitBatch(context.Background(), nil, "x", "2025-01-27T10:00:00Z", "2025-01-27T11:00:00Z")
	assert.NoError(t, err)
	assert.Empty(t, outcomes)
	summary := annotation.Summarize(outcomes)
	assert.Equal(t, 0, summary.Total)
}

func TestServiceConfigurationValidation(t *testing.T) {
	_, err := annotation.New(slog.Default(), &fakeSubmitter{}, annotation.Configuration{}, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := annotation.NewID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "identifier generated twice: %s", id)
		seen[id] = true
	}
}
