package model

import "github.com/rotisserie/eris"

// LeadStatus represents a sales-funnel qualification stage.
type LeadStatus string

const (
	StatusNew              LeadStatus = "NEW"
	StatusContacted        LeadStatus = "CONTACTED"
	StatusQualified        LeadStatus = "QUALIFIED"
	StatusMeetingScheduled LeadStatus = "MEETING_SCHEDULED"
	StatusWon              LeadStatus = "WON"
	StatusLost             LeadStatus = "LOST"
)

// AllLeadStatuses returns all defined funnel statuses.
func AllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusNew,
		StatusContacted,
		StatusQualified,
		StatusMeetingScheduled,
		StatusWon,
		StatusLost,
	}
}

// ParseLeadStatus validates a raw status string against the closed status set.
// Unknown values are rejected rather than silently defaulted.
func ParseLeadStatus(s string) (LeadStatus, error) {
	for _, st := range AllLeadStatuses() {
		if s == string(st) {
			return st, nil
		}
	}
	return "", eris.Errorf("model: unknown lead status %q", s)
}

// Lead is a transient, read-only copy of a backend lead record. It lives for
// the duration of one qualification cycle and is never cached across cycles.
type Lead struct {
	ID                string     `json:"id"`
	CompanyID         string     `json:"companyId"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone,omitempty"`
	Email             string     `json:"email,omitempty"`
	Status            LeadStatus `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	ManuallyQualified bool       `json:"manuallyQualified,omitempty"`
}

// QueueEntry pairs a lead with its tenant for transit through the work queue.
type QueueEntry struct {
	LeadID    string `json:"lead_id"`
	CompanyID string `json:"company_id"`
}

// CycleStats accumulates counters for one qualification cycle.
type CycleStats struct {
	TotalLeads int `json:"total_leads"`
	Processed  int `json:"processed"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}
