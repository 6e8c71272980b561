package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BookingRequest is the payload forwarded to the browser automation service
type BookingRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	SlotStart string `json:"slot_start"`
	Timezone  string `json:"timezone"`
}

// BookingService forwards booking requests to the headless-browser service
// that drives the Calendly page. The flow is best effort: the upstream
// status and body are surfaced as-is.
type BookingService struct {
	serviceURL string
	httpClient *http.Client
}

func NewBookingService(serviceURL string) *BookingService {
	return &BookingService{
		serviceURL: serviceURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Book forwards the request and returns the upstream status code and body
func (s *BookingService) Book(ctx context.Context, req *BookingRequest) (int, []byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("booking service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read booking response: %w", err)
	}

	return resp.StatusCode, body, nil
}
