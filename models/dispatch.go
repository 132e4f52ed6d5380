package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Reminder channels and statuses.
const (
	ReminderTypeWhatsApp = "whatsapp"

	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
	ReminderStatusFailed  = "failed"
)

// Reminder records one attempt to nudge a user about a missing order.
type Reminder struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderDate     time.Time  `gorm:"type:date;not null;index" json:"order_date"`
	ReminderType  string     `gorm:"type:varchar(20);not null;default:'whatsapp'" json:"reminder_type"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	FailureReason string     `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Summary e-mail statuses.
const (
	SummaryStatusSent   = "sent"
	SummaryStatusFailed = "failed"
)

// RestaurantOrderSummary records a per-restaurant daily order summary dispatch.
type RestaurantOrderSummary struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	OrderDate    time.Time      `gorm:"type:date;not null;index" json:"order_date"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	EmailStatus  string         `gorm:"type:varchar(20);not null" json:"email_status"`
	SummaryData  datatypes.JSON `gorm:"type:jsonb" json:"summary_data"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// SummaryData is the payload stored in RestaurantOrderSummary.SummaryData.
type SummaryData struct {
	OrderCount  int      `json:"order_count"`
	TotalAmount string   `json:"total_amount"`
	OrderIDs    []string `json:"order_ids"`
}

// Task names accepted by the task runner.
const (
	TaskDailyReminders      = "daily_reminders"
	TaskRestaurantSummaries = "restaurant_summaries"
)

// RunTaskRequest is the payload of the task trigger endpoint and queue messages.
type RunTaskRequest struct {
	Task string `json:"task"`
}

// DispatchResult counts outcomes of a dispatch sweep.
type DispatchResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Add accumulates another result.
func (r *DispatchResult) Add(o DispatchResult) {
	r.Sent += o.Sent
	r.Failed += o.Failed
	r.Skipped += o.Skipped
}

// TaskRunResult is returned by the task runner.
type TaskRunResult struct {
	OK         bool           `json:"ok"`
	Task       string         `json:"task"`
	StartedAt  time.Time      `json:"started_at"`
	AlreadyRan bool           `json:"already_ran,omitempty"`
	Result     DispatchResult `json:"result"`
}

// SendSummaryRequest triggers a manual restaurant summary for a date.
type SendSummaryRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	Date         string    `json:"date" binding:"required,datetime=2006-01-02"`
}
