package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func weekParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// GetWeekStatus reports whether a vehicle's week is settled, open for
// settlement, or without activity
func GetWeekStatus(processor *settlement.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, err := strconv.ParseUint(c.Param("vehicleId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle id"})
			return
		}

		date, ok := weekParam(c)
		if !ok {
			return
		}

		status, err := processor.WeekStatus(uint(vehicleID), date)
		if err != nil {
			if errors.Is(err, settlement.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Vehicle not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to derive week status"})
			return
		}

		c.JSON(200, status)
	}
}

// ProcessSettlement settles one vehicle's week. AlreadySettled and
// NoActivity are expected business outcomes, reported as such rather than
// server failures.
func ProcessSettlement(processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, err := strconv.ParseUint(c.Param("vehicleId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle id"})
			return
		}

		var input struct {
			Date  string `json:"date"`
			Notes string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date := time.Now()
		if input.Date != "" {
			date, err = time.Parse("2006-01-02", input.Date)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
		}

		record, err := processor.Process(c.Request.Context(), uint(vehicleID), date, input.Notes)
		if err != nil {
			switch {
			case errors.Is(err, settlement.ErrAlreadySettled):
				c.JSON(409, gin.H{"error": "Week already settled for this vehicle"})
			case errors.Is(err, settlement.ErrNoActivity):
				c.JSON(422, gin.H{"error": "No activity for this vehicle in the week"})
			case errors.Is(err, settlement.ErrNotFound):
				c.JSON(404, gin.H{"error": "Vehicle not found"})
			default:
				c.JSON(500, gin.H{"error": "Failed to process settlement"})
			}
			return
		}

		go notifier.Publish(context.Background(), services.EventSettlementsChanged)

		c.JSON(201, record)
	}
}

// ProcessAllSettlements settles the week for every vehicle, collecting
// per-vehicle outcomes instead of aborting on the first failure
func ProcessAllSettlements(processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Date string `json:"date"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date := time.Now()
		if input.Date != "" {
			var err error
			date, err = time.Parse("2006-01-02", input.Date)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
		}

		results, err := processor.ProcessAll(c.Request.Context(), date)
		if err != nil {
			c.JSON(500, gin.H{"error": "Batch settlement run failed", "results": results})
			return
		}

		settled := 0
		for _, result := range results {
			if result.Settlement != nil {
				settled++
			}
		}
		if settled > 0 {
			go notifier.Publish(context.Background(), services.EventSettlementsChanged)
		}

		c.JSON(200, gin.H{"settled": settled, "results": results})
	}
}

// GetSettlements lists persisted settlements, optionally by vehicle
func GetSettlements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Vehicle").Order("week_start DESC")

		if raw := c.Query("vehicleId"); raw != "" {
			vehicleID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid vehicle id"})
				return
			}
			query = query.Where("vehicle_id = ?", vehicleID)
		}

		var settlements []models.WeeklySettlement
		if err := query.Find(&settlements).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch settlements"})
			return
		}

		c.JSON(200, settlements)
	}
}

// MarkSettlementPaid toggles the paid flag on a settlement record
func MarkSettlementPaid(processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid settlement id"})
			return
		}

		var input struct {
			Paid *bool `json:"paid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		record, err := processor.SetPaid(uint(id), *input.Paid)
		if err != nil {
			if errors.Is(err, settlement.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Settlement not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update settlement"})
			return
		}

		go notifier.Publish(context.Background(), services.EventSettlementsChanged)

		c.JSON(200, record)
	}
}
