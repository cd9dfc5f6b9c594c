package settlement

import (
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
)

// WeekBounds returns the Monday-to-Sunday week containing date. All week
// math in the system goes through here so trip logs, rent ledger rows and
// settlements always agree on boundaries.
func WeekBounds(date time.Time) (weekStart, weekEnd time.Time) {
	d := models.DateOnly(date)

	// time.Weekday numbers Sunday as 0; shift so Monday is the anchor
	offset := (int(d.Weekday()) + 6) % 7
	weekStart = d.AddDate(0, 0, -offset)
	weekEnd = weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}
