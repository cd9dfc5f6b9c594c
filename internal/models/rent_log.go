package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverRentLog is the rent ledger: one row per driver/date/shift recording
// the rent owed and whether it has been collected. The composite unique index
// is what makes ledger creation idempotent under concurrent trip writes.
type DriverRentLog struct {
	gorm.Model
	DriverID  uint      `json:"driverId" gorm:"column:driver_id;not null;uniqueIndex:idx_rent_logs_driver_date_shift"`
	Date      time.Time `json:"date" gorm:"column:date;not null;uniqueIndex:idx_rent_logs_driver_date_shift"`
	Shift     Shift     `json:"shift" gorm:"column:shift;not null;uniqueIndex:idx_rent_logs_driver_date_shift"`
	VehicleID uint      `json:"vehicleId" gorm:"column:vehicle_id;not null;index"`
	Rent      int       `json:"rent" gorm:"column:rent;not null"`
	Paid      bool      `json:"paid" gorm:"column:paid;not null;default:false"`
	WeekStart time.Time `json:"weekStart" gorm:"column:week_start;not null"`
	WeekEnd   time.Time `json:"weekEnd" gorm:"column:week_end;not null"`
	Driver    *Driver   `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (DriverRentLog) TableName() string {
	return "driver_rent_logs"
}
