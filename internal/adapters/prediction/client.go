// Package prediction holds the HTTP client for the external model
// service. The client only transports: it returns errors on transport
// or decode failure and never substitutes fallback values, which are
// owned by the core prediction service.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	predictionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total requests to the model service by model",
		},
		[]string{"model"},
	)
	predictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Failed model service requests by model",
		},
		[]string{"model"},
	)
	predictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_request_duration_seconds",
			Help:    "Model service request duration by model",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

// Client implements ports.PredictionGateway over the model service's
// HTTP API with a circuit breaker in front of each call.
type Client struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
}

// NewClient creates a prediction client. timeout bounds each request
// including retries inside resty.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	settings := gobreaker.Settings{
		Name:        "prediction-service",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &Client{
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(settings),
	}
}

// featureRequest is the request envelope all three models share
type featureRequest[T any] struct {
	Features []T `json:"features"`
}

// PredictFallRisk calls the fall-risk model with the per-day feature rows
func (c *Client) PredictFallRisk(ctx context.Context, features []domain.FallRiskFeatures) (*ports.FallPrediction, error) {
	var out ports.FallPrediction
	if err := c.post(ctx, "fall", "/fall/predict", featureRequest[domain.FallRiskFeatures]{Features: features}, &out); err != nil {
		return nil, err
	}
	if out.Probability < 0 || out.Probability > 1 {
		return nil, fmt.Errorf("fall model returned probability out of range: %v", out.Probability)
	}
	return &out, nil
}

// PredictMood calls the mood model with the per-day feature rows
func (c *Client) PredictMood(ctx context.Context, features []domain.MoodFeatures) (*ports.MoodPrediction, error) {
	var out ports.MoodPrediction
	if err := c.post(ctx, "mood", "/mood/predict", featureRequest[domain.MoodFeatures]{Features: features}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeMedicationAdherence calls the adherence model with the per-day
// feature rows. A 200 with an empty body yields a nil report; the core
// service maps that to its unknown-concern fallback.
func (c *Client) AnalyzeMedicationAdherence(ctx context.Context, features []domain.MedicationFeatures) (*ports.AdherenceReport, error) {
	var out ports.AdherenceReport
	empty, err := c.postAllowEmpty(ctx, "medication", "/medication/adherence", featureRequest[domain.MedicationFeatures]{Features: features}, &out)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, model, path string, body, result interface{}) error {
	empty, err := c.postAllowEmpty(ctx, model, path, body, result)
	if err != nil {
		return err
	}
	if empty {
		return fmt.Errorf("model service returned empty body for %s", path)
	}
	return nil
}

// postAllowEmpty performs the request and reports whether the response
// body was empty. Non-2xx statuses and decode failures are errors.
func (c *Client) postAllowEmpty(ctx context.Context, model, path string, body, result interface{}) (bool, error) {
	predictionRequests.WithLabelValues(model).Inc()
	start := time.Now()

	res, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(result).
			Post(path)
		if err != nil {
			return nil, fmt.Errorf("failed to call model service: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("model service returned status %d for %s", resp.StatusCode(), path)
		}
		return resp, nil
	})

	predictionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		predictionFailures.WithLabelValues(model).Inc()
		return false, err
	}

	resp := res.(*resty.Response)
	return len(resp.Body()) == 0, nil
}

// Ensure Client implements the interface
var _ ports.PredictionGateway = (*Client)(nil)
