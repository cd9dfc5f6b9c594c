package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrAlreadySettled means a settlement already exists for the vehicle
	// and week. Settlements are append-only audit records; there is no
	// silent overwrite.
	ErrAlreadySettled = errors.New("week already settled for vehicle")
	// ErrNoActivity means the vehicle has no trips, substitutes or ledger
	// entries in the week, so there is nothing to settle.
	ErrNoActivity = errors.New("no activity for vehicle in week")
	// ErrNotFound is returned for an unknown vehicle or settlement id.
	ErrNotFound = errors.New("settlement not found")
)

// WeekStatus describes where a (vehicle, week) pair sits in the
// NoActivity -> Open -> Settled lifecycle.
type WeekStatus struct {
	VehicleID uint      `json:"vehicleId"`
	WeekStart time.Time `json:"weekStart"`
	WeekEnd   time.Time `json:"weekEnd"`
	IsSettled bool      `json:"isSettled"`
	CanSettle bool      `json:"canSettle"`
}

// ProcessResult is one vehicle's outcome in a batch settlement run
type ProcessResult struct {
	VehicleID     uint                     `json:"vehicleId"`
	VehicleNumber string                   `json:"vehicleNumber"`
	Settlement    *models.WeeklySettlement `json:"settlement,omitempty"`
	Error         string                   `json:"error,omitempty"`
}

// Processor drives settlements through their lifecycle. Each Process call
// re-reads all inputs and persists inside one transaction, so a concurrent
// trip edit can never be half-absorbed and a concurrent duplicate Process
// loses cleanly to the unique index.
type Processor struct {
	db *gorm.DB
}

func NewProcessor(db *gorm.DB) *Processor {
	return &Processor{db: db}
}

// WeekStatus reports whether the vehicle's week is settled, open, or has no
// activity at all.
func (p *Processor) WeekStatus(vehicleID uint, date time.Time) (*WeekStatus, error) {
	weekStart, weekEnd := WeekBounds(date)

	var vehicle models.Vehicle
	if err := p.db.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := &WeekStatus{VehicleID: vehicleID, WeekStart: weekStart, WeekEnd: weekEnd}

	won, err := p.settled(vehicleID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if won {
		status.IsSettled = true
		return status, nil
	}

	active, err := hasActivity(p.db, vehicleID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	status.CanSettle = active
	return status, nil
}

// Process computes and persists the settlement for one vehicle-week. Fails
// with ErrAlreadySettled or ErrNoActivity for the expected business states;
// callers branch on those rather than treating them as system failures.
func (p *Processor) Process(ctx context.Context, vehicleID uint, date time.Time, notes string) (*models.WeeklySettlement, error) {
	weekStart, weekEnd := WeekBounds(date)

	var record *models.WeeklySettlement
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		err := tx.Model(&models.WeeklySettlement{}).
			Where("vehicle_id = ? AND week_start = ? AND week_end = ?", vehicleID, weekStart, weekEnd).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySettled
		}

		active, err := hasActivity(tx, vehicleID, weekStart, weekEnd)
		if err != nil {
			return err
		}
		if !active {
			return ErrNoActivity
		}

		summary, err := CalculateWeek(tx, &vehicle, weekStart)
		if err != nil {
			return err
		}

		record = &models.WeeklySettlement{
			VehicleID:         vehicleID,
			WeekStart:         summary.WeekStart,
			WeekEnd:           summary.WeekEnd,
			TotalTrips:        summary.TotalTrips,
			Rate:              summary.Rate,
			CompanyRent:       summary.CompanyRent,
			DriverRent:        summary.DriverRent,
			SubstituteCharges: summary.SubstituteCharges,
			Profit:            summary.Profit,
			Notes:             notes,
		}

		// A concurrent Process may have landed first; the unique index on
		// (vehicle_id, week_start, week_end) rejects the loser
		return tx.Create(record).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySettled), errors.Is(err, ErrNoActivity), errors.Is(err, ErrNotFound):
			return nil, err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadySettled
		}
		// A failed insert aborts the whole transaction on postgres, so the
		// duplicate check has to run after rollback on the root connection
		if won, cerr := p.settled(vehicleID, weekStart, weekEnd); cerr == nil && won {
			return nil, ErrAlreadySettled
		}
		return nil, err
	}
	return record, nil
}

// settled reports whether a settlement row exists for the vehicle-week. Runs
// on the root connection so it stays usable after a rolled-back transaction.
func (p *Processor) settled(vehicleID uint, weekStart, weekEnd time.Time) (bool, error) {
	var count int64
	err := p.db.Model(&models.WeeklySettlement{}).
		Where("vehicle_id = ? AND week_start = ? AND week_end = ?", vehicleID, weekStart, weekEnd).
		Count(&count).Error
	return count > 0, err
}

// ProcessAll settles every vehicle for the week, continuing past per-vehicle
// failures and returning the full report. Cancellable between vehicles.
func (p *Processor) ProcessAll(ctx context.Context, date time.Time) ([]ProcessResult, error) {
	var vehicles []models.Vehicle
	if err := p.db.Find(&vehicles).Error; err != nil {
		return nil, err
	}

	results := make([]ProcessResult, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := ProcessResult{VehicleID: vehicle.ID, VehicleNumber: vehicle.Number}
		settlementRecord, err := p.Process(ctx, vehicle.ID, date, "")
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Settlement = settlementRecord
		}
		results = append(results, result)
	}
	return results, nil
}

// Invalidate removes the settlement for the vehicle's week, if any. Called
// when a trip or substitute in an already-settled week is deleted: the
// cached aggregate no longer matches its inputs and must be re-processed.
func (p *Processor) Invalidate(vehicleID uint, date time.Time) error {
	weekStart, weekEnd := WeekBounds(date)
	return p.db.Unscoped().
		Where("vehicle_id = ? AND week_start = ? AND week_end = ?", vehicleID, weekStart, weekEnd).
		Delete(&models.WeeklySettlement{}).Error
}

// SetPaid toggles the paid flag on a settlement record. Idempotent.
func (p *Processor) SetPaid(id uint, paid bool) (*models.WeeklySettlement, error) {
	var record models.WeeklySettlement
	if err := p.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if record.Paid == paid {
		return &record, nil
	}

	if err := p.db.Model(&record).Update("paid", paid).Error; err != nil {
		return nil, err
	}
	record.Paid = paid
	return &record, nil
}
