package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// RemoteOptions configures a Remote estimator.
type RemoteOptions struct {
	Client        *http.Client
	Logger        *slog.Logger
	URL           string
	Backoff       BackoffStrategy
	Timeout       time.Duration
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	MaxRetries    int
	MaxZ          int
}

// Remote calls an external model server: POST {url}/predict with
// {"formulas": [...]} answered by {"energies": [...]}.
type Remote struct {
	client  *http.Client
	logger  *slog.Logger
	opts    RemoteOptions
	predict string
}

type predictRequest struct {
	Formulas []string `json:"formulas"`
}

// predictResponse keeps JSON nulls distinguishable from zero energies.
type predictResponse struct {
	Energies []*float64 `json:"energies"`
}

// NewRemote creates a remote estimator.
func NewRemote(opts RemoteOptions) (*Remote, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("remote estimator requires a URL")
	}
	if !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
		return nil, fmt.Errorf("remote estimator URL %q must be http or https", opts.URL)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Backoff == "" {
		opts.Backoff = BackoffExponential
	}

	return &Remote{
		client:  client,
		logger:  logger,
		opts:    opts,
		predict: strings.TrimRight(opts.URL, "/") + "/predict",
	}, nil
}

// Name implements ports.EnergyEstimator.
func (r *Remote) Name() string { return "remote" }

// Screen implements ports.EnergyEstimator.
func (r *Remote) Screen(comps []entities.Composition) entities.Screening {
	return screen(comps, r.opts.MaxZ, nil)
}

// PredictEnergies implements ports.EnergyEstimator. Transient failures are
// retried with backoff until MaxRetries is exhausted or ctx ends. The
// response length is returned as received.
func (r *Remote) PredictEnergies(ctx context.Context, comps []entities.Composition) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Formulas: formulas(comps)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := CalculateBackoff(r.opts.Backoff, attempt, r.opts.RetryDelay, r.opts.MaxRetryDelay)
			r.logger.Debug("retrying model server", "attempt", attempt, "delay", delay, "error", lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		energies, err := r.call(ctx, body)
		if err == nil {
			return energies, nil
		}
		lastErr = err
		if !isTransientError(err) {
			break
		}
	}
	return nil, lastErr
}

func (r *Remote) call(ctx context.Context, body []byte) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.predict, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Best-effort cleanup
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model server response: %w", err)
	}

	energies := make([]float64, len(out.Energies))
	for i, e := range out.Energies {
		if e == nil {
			return nil, apperrors.NewEstimationError(r.Name(),
				fmt.Sprintf("model server returned no energy at index %d", i), nil)
		}
		energies[i] = *e
	}
	return energies, nil
}

func formulas(comps []entities.Composition) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.Formula()
	}
	return out
}
