package ledger

import (
	"context"
	"errors"
	"log"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"gorm.io/gorm"
)

// RentStatus classifies a trip's standing in the rent ledger
type RentStatus string

const (
	RentStatusPaid   RentStatus = "paid"
	RentStatusUnpaid RentStatus = "unpaid"
	// RentStatusAutoCreated means the ledger row was missing when asked for
	// and was created on the spot
	RentStatusAutoCreated RentStatus = "auto_created"
)

// RepairReport summarizes one repair sweep over the trip log
type RepairReport struct {
	Scanned  int      `json:"scanned"`
	Created  int      `json:"created"`
	Failures []string `json:"failures,omitempty"`
}

// Reconciler keeps the rent ledger a faithful reflection of the trip log:
// every trip must have a ledger row for its driver-day-shift. All creates go
// through the store's UpsertIfAbsent, so sweeps are idempotent and safe to
// run while trips are still being written.
type Reconciler struct {
	db    *gorm.DB
	store *Store
}

func NewReconciler(db *gorm.DB, store *Store) *Reconciler {
	return &Reconciler{db: db, store: store}
}

// OnTripCreated ensures the trip's driver has a ledger row for the day and
// shift, charged at the driver's accommodation-derived daily rent.
func (r *Reconciler) OnTripCreated(trip *models.Trip) (*models.DriverRentLog, error) {
	var driver models.Driver
	if err := r.db.First(&driver, trip.DriverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return r.store.UpsertIfAbsent(trip.DriverID, trip.Date, trip.Shift, trip.VehicleID, driver.DailyRent())
}

// OnTripDeleted cascades a trip deletion into the ledger. Paid rows go too:
// when a trip is reversed, consistency with the trip log wins over keeping
// the payment history.
func (r *Reconciler) OnTripDeleted(trip *models.Trip) error {
	return r.store.DeleteForDriverDate(trip.DriverID, trip.Date)
}

// RepairAll sweeps every trip and creates any ledger row that has gone
// missing. Safe to run repeatedly: duplicate creates are suppressed by the
// store. A failure on one trip is recorded and the sweep moves on. The
// context is checked between trips so a long sweep can be cancelled without
// leaving anything half-done.
func (r *Reconciler) RepairAll(ctx context.Context) (*RepairReport, error) {
	var trips []models.Trip
	if err := r.db.Find(&trips).Error; err != nil {
		return nil, err
	}

	report := &RepairReport{}
	for i := range trips {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		trip := &trips[i]
		report.Scanned++

		var count int64
		err := r.db.Model(&models.DriverRentLog{}).
			Where("driver_id = ? AND date = ? AND shift = ?", trip.DriverID, models.DateOnly(trip.Date), trip.Shift).
			Count(&count).Error
		if err != nil {
			report.Failures = append(report.Failures, err.Error())
			continue
		}
		if count > 0 {
			continue
		}

		log.Printf("ledger drift: trip %d (driver %d, %s %s) has no rent log, repairing",
			trip.ID, trip.DriverID, trip.Date.Format("2006-01-02"), trip.Shift)

		if _, err := r.OnTripCreated(trip); err != nil {
			report.Failures = append(report.Failures, err.Error())
			continue
		}
		report.Created++
	}

	return report, nil
}

// RentStatus reports whether the rent for a trip's driver-day-shift is paid,
// unpaid, or was missing entirely. A missing row is drift: it is repaired
// synchronously and reported as auto_created so the caller knows the read
// had a side effect.
func (r *Reconciler) RentStatus(tripID uint) (RentStatus, *models.DriverRentLog, error) {
	var trip models.Trip
	if err := r.db.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	var entry models.DriverRentLog
	err := r.db.Where("driver_id = ? AND date = ? AND shift = ?", trip.DriverID, models.DateOnly(trip.Date), trip.Shift).
		First(&entry).Error
	if err == nil {
		if entry.Paid {
			return RentStatusPaid, &entry, nil
		}
		return RentStatusUnpaid, &entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	log.Printf("ledger drift: trip %d observed with no rent log, creating inline", trip.ID)
	created, err := r.OnTripCreated(&trip)
	if err != nil {
		return "", nil, err
	}
	return RentStatusAutoCreated, created, nil
}
