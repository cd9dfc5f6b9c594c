package models

import (
	"time"

	"gorm.io/gorm"
)

// WeeklySettlement is the persisted weekly profit/loss record for one
// vehicle. It is an audit snapshot: current numbers are always recomputable
// from trips, rent logs and substitute charges. The unique index keeps
// settlements append-only per (vehicle, week).
type WeeklySettlement struct {
	gorm.Model
	VehicleID         uint      `json:"vehicleId" gorm:"column:vehicle_id;not null;uniqueIndex:idx_settlements_vehicle_week"`
	WeekStart         time.Time `json:"weekStart" gorm:"column:week_start;not null;uniqueIndex:idx_settlements_vehicle_week"`
	WeekEnd           time.Time `json:"weekEnd" gorm:"column:week_end;not null;uniqueIndex:idx_settlements_vehicle_week"`
	TotalTrips        int       `json:"totalTrips" gorm:"column:total_trips;not null"`
	Rate              int       `json:"rate" gorm:"column:rate;not null"`
	CompanyRent       int       `json:"companyRent" gorm:"column:company_rent;not null"`
	DriverRent        int       `json:"driverRent" gorm:"column:driver_rent;not null"`
	SubstituteCharges int       `json:"substituteCharges" gorm:"column:substitute_charges;not null"`
	Profit            int       `json:"profit" gorm:"column:profit;not null"`
	Paid              bool      `json:"paid" gorm:"column:paid;not null;default:false"`
	Notes             string    `json:"notes,omitempty" gorm:"column:notes"`
	Vehicle           *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (WeeklySettlement) TableName() string {
	return "weekly_settlements"
}
