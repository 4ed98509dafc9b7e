// Package gateway is the sole channel to the lead/message system of record.
//
// Every operation is fail-open: transport and decode failures are logged and
// converted to an empty or false result, never propagated. The backend remains
// the source of truth, so a failed call here only defers work to the next
// qualification cycle.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

const (
	internalKeyHeader = "X-Internal-Key"
	defaultTimeout    = 30 * time.Second
)

// Client defines the backend operations used by the pipeline.
type Client interface {
	// PendingLeads returns all leads currently pending qualification.
	// Returns an empty slice on any failure.
	PendingLeads(ctx context.Context) []model.Lead

	// LeadMessages returns up to limit recent messages for a lead.
	// Returns an empty slice on any failure.
	LeadMessages(ctx context.Context, leadID string, limit int) []model.Message

	// QualifyLead asks the backend to move a lead to the given status.
	// Returns false on any failure or backend rejection.
	QualifyLead(ctx context.Context, leadID string, status model.LeadStatus) bool
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL     string
	internalKey string
	http        *http.Client
}

// NewClient creates a backend gateway client. All requests carry the shared
// internal key header; authentication failures are the backend's concern.
func NewClient(baseURL, internalKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL:     baseURL,
		internalKey: internalKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type leadPayload struct {
	ID                string `json:"id"`
	CompanyID         string `json:"companyId"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Status            string `json:"status"`
	Notes             string `json:"notes"`
	ManuallyQualified bool   `json:"manuallyQualified"`
}

type qualifyResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

func (c *httpClient) PendingLeads(ctx context.Context) []model.Lead {
	var payload []leadPayload
	if !c.getJSON(ctx, "/api/internal/leads/pending-qualification", nil, &payload) {
		return nil
	}

	leads := make([]model.Lead, 0, len(payload))
	for _, item := range payload {
		status, err := model.ParseLeadStatus(item.Status)
		if err != nil {
			zap.L().Warn("gateway: dropping lead with unknown status",
				zap.String("lead_id", item.ID),
				zap.String("status", item.Status),
			)
			continue
		}
		leads = append(leads, model.Lead{
			ID:                item.ID,
			CompanyID:         item.CompanyID,
			Name:              item.Name,
			Phone:             item.Phone,
			Email:             item.Email,
			Status:            status,
			Notes:             item.Notes,
			ManuallyQualified: item.ManuallyQualified,
		})
	}

	zap.L().Info("gateway: fetched pending leads", zap.Int("count", len(leads)))
	return leads
}

func (c *httpClient) LeadMessages(ctx context.Context, leadID string, limit int) []model.Message {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}

	var messages []model.Message
	if !c.getJSON(ctx, "/api/internal/leads/"+url.PathEscape(leadID)+"/messages", query, &messages) {
		return nil
	}

	zap.L().Debug("gateway: fetched lead messages",
		zap.String("lead_id", leadID),
		zap.Int("count", len(messages)),
	)
	return messages
}

func (c *httpClient) QualifyLead(ctx context.Context, leadID string, status model.LeadStatus) bool {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		zap.L().Error("gateway: marshal qualify request", zap.Error(err))
		return false
	}

	endpoint := c.baseURL + "/api/internal/leads/" + url.PathEscape(leadID) + "/qualify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		zap.L().Error("gateway: create qualify request", zap.Error(err))
		return false
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Error("gateway: qualify lead", zap.String("lead_id", leadID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Error("gateway: qualify lead returned non-2xx",
			zap.String("lead_id", leadID),
			zap.Int("status_code", resp.StatusCode),
		)
		return false
	}

	var result qualifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		zap.L().Error("gateway: decode qualify response", zap.String("lead_id", leadID), zap.Error(err))
		return false
	}

	if result.Success {
		zap.L().Info("gateway: lead qualified",
			zap.String("lead_id", leadID),
			zap.String("status", string(status)),
		)
	} else {
		zap.L().Info("gateway: lead not updated",
			zap.String("lead_id", leadID),
			zap.String("reason", result.Reason),
		)
	}
	return result.Success
}

// getJSON performs an authenticated GET and decodes the body into out.
// Returns false (with a log line) on any failure.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, out any) bool {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		zap.L().Error("gateway: create request", zap.String("path", path), zap.Error(err))
		return false
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Error("gateway: request failed", zap.String("path", path), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.L().Error("gateway: non-2xx response",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		zap.L().Error("gateway: decode response", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

func (c *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalKeyHeader, c.internalKey)
}
