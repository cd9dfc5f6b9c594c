package settlement

import (
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/pkg/utils"
	"gorm.io/gorm"
)

// Days charged per settled week. The provider bills the full week even when
// the vehicle only ran part of it; a mid-week onboarding therefore pays for
// seven days. Known simplification carried over from the business rule.
const ChargedDaysPerWeek = 7

// WeekSummary is a pure snapshot of one vehicle's week. Nothing here is
// persisted; the same inputs always produce the same summary.
type WeekSummary struct {
	VehicleID         uint            `json:"vehicleId"`
	WeekStart         time.Time       `json:"weekStart"`
	WeekEnd           time.Time       `json:"weekEnd"`
	TotalTrips        int             `json:"totalTrips"`
	Rate              int             `json:"rate"`
	CompanyRent       int             `json:"companyRent"`
	DriverRent        int             `json:"driverRent"`
	SubstituteCharges int             `json:"substituteCharges"`
	Profit            int             `json:"profit"`
	NextTarget        utils.SlabTarget `json:"nextTarget"`
}

// CalculateWeek aggregates a vehicle's week from current storage: trips and
// substitute shifts decide the slab rate, ledger rent plus substitute
// charges make up revenue. Rent counts regardless of the paid flag; revenue
// is earned, not cash-basis.
func CalculateWeek(db *gorm.DB, vehicle *models.Vehicle, date time.Time) (*WeekSummary, error) {
	weekStart, weekEnd := WeekBounds(date)

	var tripTotal int
	err := db.Model(&models.Trip{}).
		Select("COALESCE(SUM(trip_count), 0)").
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicle.ID, weekStart, weekEnd).
		Scan(&tripTotal).Error
	if err != nil {
		return nil, err
	}

	var subTrips int
	err = db.Model(&models.SubstituteDriver{}).
		Select("COALESCE(SUM(trip_count), 0)").
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicle.ID, weekStart, weekEnd).
		Scan(&subTrips).Error
	if err != nil {
		return nil, err
	}

	var subCharges int
	err = db.Model(&models.SubstituteDriver{}).
		Select("COALESCE(SUM(charge), 0)").
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicle.ID, weekStart, weekEnd).
		Scan(&subCharges).Error
	if err != nil {
		return nil, err
	}

	var driverRent int
	err = db.Model(&models.DriverRentLog{}).
		Select("COALESCE(SUM(rent), 0)").
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicle.ID, weekStart, weekEnd).
		Scan(&driverRent).Error
	if err != nil {
		return nil, err
	}

	totalTrips := tripTotal + subTrips

	rate, err := utils.ResolveRate(vehicle.Provider, totalTrips)
	if err != nil {
		return nil, err
	}
	target, err := utils.NextTarget(vehicle.Provider, totalTrips)
	if err != nil {
		return nil, err
	}

	companyRent := rate * ChargedDaysPerWeek

	return &WeekSummary{
		VehicleID:         vehicle.ID,
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		TotalTrips:        totalTrips,
		Rate:              rate,
		CompanyRent:       companyRent,
		DriverRent:        driverRent,
		SubstituteCharges: subCharges,
		Profit:            driverRent + subCharges - companyRent,
		NextTarget:        target,
	}, nil
}

// hasActivity reports whether the vehicle's week has any trips, substitute
// shifts or ledger entries at all. A week with none of those cannot be
// settled.
func hasActivity(db *gorm.DB, vehicleID uint, weekStart, weekEnd time.Time) (bool, error) {
	var tripCount int64
	err := db.Model(&models.Trip{}).
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicleID, weekStart, weekEnd).
		Count(&tripCount).Error
	if err != nil {
		return false, err
	}
	if tripCount > 0 {
		return true, nil
	}

	var subCount int64
	err = db.Model(&models.SubstituteDriver{}).
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicleID, weekStart, weekEnd).
		Count(&subCount).Error
	if err != nil {
		return false, err
	}
	if subCount > 0 {
		return true, nil
	}

	var ledgerCount int64
	err = db.Model(&models.DriverRentLog{}).
		Where("vehicle_id = ? AND date BETWEEN ? AND ?", vehicleID, weekStart, weekEnd).
		Count(&ledgerCount).Error
	if err != nil {
		return false, err
	}
	return ledgerCount > 0, nil
}
