package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/ledger"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// GetRentLedger lists ledger entries, all or only the unpaid ones
func GetRentLedger(store *ledger.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("unpaid") == "true" {
			entries, err := store.ListUnpaid()
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch rent ledger"})
				return
			}
			c.JSON(200, entries)
			return
		}

		entries, err := store.ListAll()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rent ledger"})
			return
		}
		c.JSON(200, entries)
	}
}

// MarkRentPaid toggles the paid flag on a ledger entry. Safe to retry: the
// toggle is idempotent, so optimistic clients can re-send freely.
func MarkRentPaid(store *ledger.Store, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid ledger entry id"})
			return
		}

		var input struct {
			Paid *bool `json:"paid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		entry, err := store.SetPaid(uint(id), *input.Paid)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Ledger entry not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update ledger entry"})
			return
		}

		go notifier.Publish(context.Background(), services.EventLedgerChanged)

		c.JSON(200, entry)
	}
}

// RepairLedger runs a full reconciliation sweep: every trip without a ledger
// row gets one. Re-running is harmless.
func RepairLedger(reconciler *ledger.Reconciler, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reconciler.RepairAll(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "Repair sweep failed", "report": report})
			return
		}

		if report.Created > 0 {
			go notifier.Publish(context.Background(), services.EventLedgerChanged)
		}

		c.JSON(200, report)
	}
}
