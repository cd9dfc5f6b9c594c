package models

import (
	"time"

	"gorm.io/gorm"
)

// Flat charge in INR for a substitute driver shift, by hours worked.
const (
	SubstituteCharge6h  = 250
	SubstituteCharge8h  = 350
	SubstituteCharge12h = 500
)

// SubstituteCharge returns the flat charge for the given shift length, and
// false when the shift length is not one offered.
func SubstituteCharge(hours int) (int, bool) {
	switch hours {
	case 6:
		return SubstituteCharge6h, true
	case 8:
		return SubstituteCharge8h, true
	case 12:
		return SubstituteCharge12h, true
	}
	return 0, false
}

// SubstituteDriver stands in for a regular driver on a date/shift. The charge
// counts toward weekly revenue and the trip count toward the weekly slab, but
// substitutes never appear in the driver rent ledger.
type SubstituteDriver struct {
	gorm.Model
	VehicleID uint      `json:"vehicleId" gorm:"column:vehicle_id;not null;index"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Date      time.Time `json:"date" gorm:"column:date;not null;index"`
	Shift     Shift     `json:"shift" gorm:"column:shift;not null"`
	Hours     int       `json:"hours" gorm:"column:hours;not null"`
	Charge    int       `json:"charge" gorm:"column:charge;not null"`
	TripCount int       `json:"tripCount" gorm:"column:trip_count;not null;default:1"`
	Vehicle   *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (SubstituteDriver) TableName() string {
	return "substitute_drivers"
}
