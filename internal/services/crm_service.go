package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// CRMService pushes leads to the CRM's contact endpoint
type CRMService struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewCRMService(endpoint, apiKey string) *CRMService {
	return &CRMService{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PushLead delivers a single lead to the CRM. Non-2xx responses are errors
// so the caller can retry.
func (s *CRMService) PushLead(ctx context.Context, lead *models.Lead) error {
	payload, err := json.Marshal(map[string]string{
		"name":   lead.Name,
		"email":  lead.Email,
		"phone":  lead.Phone,
		"source": lead.Source,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal lead %s: %w", lead.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build CRM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("CRM unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("CRM returned status %d for lead %s", resp.StatusCode, lead.ID)
	}

	return nil
}
