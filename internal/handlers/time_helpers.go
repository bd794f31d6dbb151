package handlers

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const defaultTimezone = "America/Sao_Paulo"

// resolve o timezone oficial do consultório
func locationFromWorkplace(wp *models.Workplace) *time.Location {
	if wp != nil && wp.Timezone != "" {
		if loc, err := time.LoadLocation(wp.Timezone); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

func parseDateInWorkplace(wp *models.Workplace, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromWorkplace(wp),
	)
}
