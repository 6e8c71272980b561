package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus represents the CRM sync state of a lead
type LeadStatus string

const (
	LeadStatusPending LeadStatus = "pending"
	LeadStatusSynced  LeadStatus = "synced"
	LeadStatusFailed  LeadStatus = "failed"
)

// Lead represents a sales lead waiting to be pushed to the CRM
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Source    string     `json:"source"`
	Status    LeadStatus `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError *string    `json:"last_error"`
	SyncedAt  *time.Time `json:"synced_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewLead creates a new Lead with a generated UUID
func NewLead(name, email, phone, source string) *Lead {
	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Source:    source,
		Status:    LeadStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkSynced marks the lead as delivered to the CRM
func (l *Lead) MarkSynced() {
	now := time.Now()
	l.Status = LeadStatusSynced
	l.SyncedAt = &now
	l.UpdatedAt = now
}

// MarkFailed records a failed delivery attempt
func (l *Lead) MarkFailed(message string) {
	l.Status = LeadStatusFailed
	l.LastError = &message
	l.Attempts++
	l.UpdatedAt = time.Now()
}
