package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/config"
	"github.com/hirlapp/hirl-server/models"
)

// StartCheckInSweeper launches a background goroutine that periodically auto-checks
// out active check-ins older than the configured max age. Keeps "currently present"
// honest when clients disappear without checking out. Best-effort; failures are
// logged and retried next tick.
func StartCheckInSweeper(db *gorm.DB, interval time.Duration) {
	if db == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			c := config.Get()
			maxAge := time.Duration(c.CheckInMaxAgeHours) * time.Hour
			if maxAge <= 0 {
				continue
			}
			cutoff := time.Now().Add(-maxAge)
			now := time.Now()
			res := db.Model(&models.CheckIn{}).
				Where("is_active = ? AND created_at <= ?", true, cutoff).
				Updates(map[string]interface{}{"is_active": false, "checked_out_at": now})
			if res.Error != nil {
				if Sugar != nil {
					Sugar.Warnf("check-in sweeper failed: %v", res.Error)
				}
				continue
			}
			if res.RowsAffected > 0 && Sugar != nil {
				Sugar.Infof("check-in sweeper auto-checked-out %d stale rows", res.RowsAffected)
			}
		}
	}()
}
