package reporting

import (
	"time"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// ResolveDateRange converte o intervalo simbólico do template em datas
// concretas, normalizadas para a meia-noite
func ResolveDateRange(dateRange string, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch dateRange {
	case domain.DateRangeToday:
		return today, today
	case domain.DateRangeYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, yesterday
	case domain.DateRangeLast7Days:
		return today.AddDate(0, 0, -7), today
	case domain.DateRangeLast30Days:
		return today.AddDate(0, 0, -30), today
	case domain.DateRangeThisWeekMonTo:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7 // domingo
		}
		return today.AddDate(0, 0, -(weekday - 1)), today
	case domain.DateRangeThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today
	default:
		// CUSTOM_DATE sem datas explícitas cai nos últimos 7 dias
		return today.AddDate(0, 0, -7), today
	}
}
