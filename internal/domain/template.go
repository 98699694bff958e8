package domain

import (
	"time"
)

// Intervalos de datas aceitos pelos templates de relatório
const (
	DateRangeToday         = "TODAY"
	DateRangeYesterday     = "YESTERDAY"
	DateRangeLast7Days     = "LAST_7_DAYS"
	DateRangeLast30Days    = "LAST_30_DAYS"
	DateRangeThisWeekMonTo = "THIS_WEEK_MON_TODAY"
	DateRangeThisMonth     = "THIS_MONTH"
	DateRangeCustom        = "CUSTOM_DATE"
)

type ReportTemplate struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Metrics     []string  `json:"metrics"`
	DateRange   string    `json:"date_range"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
