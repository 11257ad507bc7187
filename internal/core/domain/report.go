package domain

import (
	"errors"
	"time"
)

// ReportStatus is the triage state of a report.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in-progress"
	ReportFixed      ReportStatus = "fixed"
	ReportRejected   ReportStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportInProgress, ReportFixed, ReportRejected:
		return true
	}
	return false
}

// ReportCategory classifies what kind of issue was reported.
type ReportCategory string

const (
	CategoryStreetlight ReportCategory = "streetlight"
	CategoryPothole     ReportCategory = "pothole"
	CategoryGarbage     ReportCategory = "garbage"
	CategoryTraffic     ReportCategory = "traffic"
	CategoryOther       ReportCategory = "other"
)

func (c ReportCategory) Valid() bool {
	switch c {
	case CategoryStreetlight, CategoryPothole, CategoryGarbage, CategoryTraffic, CategoryOther:
		return true
	}
	return false
}

// ReportPriority is the reporter-assigned urgency.
type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

func (p ReportPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var ErrReportNotFound = errors.New("report not found")
var ErrMissingFields = errors.New("required fields missing")
var ErrInvalidCategory = errors.New("invalid category")
var ErrInvalidPriority = errors.New("invalid priority")
var ErrInvalidStatus = errors.New("invalid status")
var ErrStatusUnchanged = errors.New("status unchanged")

// Report is a citizen-submitted municipal issue.
type Report struct {
	ID          int64          `json:"id"`
	Reference   string         `json:"reference"`
	UserID      int64          `json:"user_id"`
	Reporter    string         `json:"reporter,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    ReportCategory `json:"category"`
	Location    string         `json:"location"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	Status      ReportStatus   `json:"status"`
	Priority    ReportPriority `json:"priority"`
	PhotoPath   string         `json:"photo_path,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// StatusUpdate is one audit entry of a triage decision.
type StatusUpdate struct {
	ID        int64        `json:"id"`
	ReportID  int64        `json:"report_id"`
	UpdatedBy int64        `json:"updated_by"`
	UpdaterName string     `json:"updater_name,omitempty"`
	OldStatus ReportStatus `json:"old_status"`
	NewStatus ReportStatus `json:"new_status"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportStats are the aggregate counts shown on dashboards.
type ReportStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Fixed      int64 `json:"fixed"`
}
