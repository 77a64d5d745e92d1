package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/utils"
)

const statsCacheKey = "cache:stats:global"

// StatsController serves aggregate counters for the landing page and a per-user
// activity summary.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

type globalStats struct {
	Users          int64 `json:"users"`
	Venues         int64 `json:"venues"`
	ActiveCheckIns int64 `json:"active_check_ins"`
	Matches        int64 `json:"matches"`
}

// Global returns site-wide counters, Redis-cached for a minute.
func (s *StatsController) Global(ctx *gin.Context) {
	var stats globalStats
	if utils.CacheGetJSON(statsCacheKey, &stats) {
		utils.Success(ctx, stats)
		return
	}

	if err := s.db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Venue{}).Where("is_active = ?", true).Count(&stats.Venues).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.CheckIn{}).Where("is_active = ?", true).Count(&stats.ActiveCheckIns).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}
	// Each match is two matched rows, one per direction
	var matchedRows int64
	if err := s.db.Model(&models.Ping{}).Where("status = ?", models.PingMatched).Count(&matchedRows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load stats")
		return
	}
	stats.Matches = matchedRows / 2

	utils.CacheSetJSON(statsCacheKey, stats, time.Minute)
	utils.Success(ctx, stats)
}

// Mine returns the caller's own activity counters.
func (s *StatsController) Mine(ctx *gin.Context) {
	email := getUserEmail(ctx)

	var checkIns, pingsSent, pingsReceived, matchedRows int64
	if err := s.db.Model(&models.CheckIn{}).Where("user_email = ?", email).Count(&checkIns).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Ping{}).Where("from_user_email = ?", email).Count(&pingsSent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Ping{}).Where("to_user_email = ?", email).Count(&pingsReceived).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Ping{}).
		Where("(from_user_email = ? OR to_user_email = ?) AND status = ?", email, email, models.PingMatched).
		Count(&matchedRows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load stats")
		return
	}

	utils.Success(ctx, gin.H{
		"check_ins":      checkIns,
		"pings_sent":     pingsSent,
		"pings_received": pingsReceived,
		"matches":        matchedRows / 2,
	})
}
