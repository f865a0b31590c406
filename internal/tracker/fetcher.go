package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/warrantydesk/tracking-service/internal/model"
)

// TicketFetcher retrieves ticket data by tracking code. A canceled fetch
// returns context.Canceled, which callers treat as silence, never as a
// user-visible error.
type TicketFetcher interface {
	Fetch(ctx context.Context, trackingCode string) (*model.Ticket, error)
}

// Fetcher talks to the tracking service's lookup endpoint.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
}

func NewFetcher(baseURL string) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type lookupEnvelope struct {
	Success bool          `json:"success"`
	Data    *model.Ticket `json:"data"`
	Error   string        `json:"error"`
	Code    string        `json:"code"`
}

// Fetch validates the tracking code before any I/O, then performs the
// lookup. HTTP statuses map onto the error taxonomy via KindForStatus.
func (f *Fetcher) Fetch(ctx context.Context, trackingCode string) (*model.Ticket, error) {
	if !model.IsValidTrackingCode(trackingCode) {
		return nil, newError(KindInvalidTrackingCode,
			"the tracking code must be a valid UUID", "")
	}

	url := f.baseURL + "/track/" + trackingCode
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(KindNetworkError, err.Error(), "")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, newError(KindNetworkError, err.Error(), "")
	}
	defer resp.Body.Close()

	var env lookupEnvelope
	if decErr := json.NewDecoder(resp.Body).Decode(&env); decErr != nil {
		if resp.StatusCode == http.StatusOK {
			return nil, newError(KindDatabaseError, "malformed response body", "")
		}
		env = lookupEnvelope{}
	}
	if resp.StatusCode != http.StatusOK {
		details := env.Error
		if details == "" {
			details = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return nil, newError(KindForStatus(resp.StatusCode), details, env.Code)
	}
	if env.Data == nil {
		return nil, newError(KindDatabaseError, "response missing ticket data", env.Code)
	}
	return env.Data, nil
}
