package models

import (
	"gorm.io/gorm"
)

// Daily rent in INR collected from a shift driver. The accommodation rate
// applies to drivers staying in company accommodation.
const (
	DailyRentWithAccommodation    = 600
	DailyRentWithoutAccommodation = 500
)

// Driver represents a shift driver sub-leasing a vehicle
type Driver struct {
	gorm.Model
	Name             string `json:"name" gorm:"column:name;not null"`
	PhoneNumber      string `json:"phoneNumber" gorm:"column:phone_number"`
	HasAccommodation bool   `json:"hasAccommodation" gorm:"column:has_accommodation;not null;default:false"`
}

// TableName specifies the table name
func (Driver) TableName() string {
	return "drivers"
}

// DailyRent returns the rent charged per day for this driver. Ledger rows
// capture the amount at creation time; flipping the accommodation flag later
// never rewrites rows already created.
func (d *Driver) DailyRent() int {
	if d.HasAccommodation {
		return DailyRentWithAccommodation
	}
	return DailyRentWithoutAccommodation
}
