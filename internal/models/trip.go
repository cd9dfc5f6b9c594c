package models

import (
	"time"

	"gorm.io/gorm"
)

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// IsValid checks if the shift is a known shift
func (s Shift) IsValid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// Trip represents one driver's trip log for a vehicle on a given date and
// shift. Duplicate rows for the same driver/date/shift are tolerated; weekly
// aggregation sums them.
type Trip struct {
	gorm.Model
	DriverID  uint      `json:"driverId" gorm:"column:driver_id;not null;index"`
	VehicleID uint      `json:"vehicleId" gorm:"column:vehicle_id;not null;index"`
	Shift     Shift     `json:"shift" gorm:"column:shift;not null"`
	Date      time.Time `json:"date" gorm:"column:date;not null;index"`
	TripCount int       `json:"tripCount" gorm:"column:trip_count;not null"`
	Driver    *Driver   `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Vehicle   *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (Trip) TableName() string {
	return "trips"
}

// DateOnly truncates t to midnight UTC. Trip, ledger and settlement dates are
// stored date-only so window queries compare cleanly.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
