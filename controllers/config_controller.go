package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/hirlapp/hirl-server/config"
	"github.com/hirlapp/hirl-server/utils"
)

// ConfigController exposes the non-sensitive settings clients need to behave
// consistently with the server's enforcement.
type ConfigController struct{}

// NewConfigController creates a ConfigController.
func NewConfigController() *ConfigController {
	return &ConfigController{}
}

// Client returns radii, polling cadence and the visibility gate flag. The client
// mirrors these in its UI, but the server remains the authority.
func (c *ConfigController) Client(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"display_radius_meters":    cfg.DisplayRadiusMeters,
		"check_in_radius_meters":   cfg.CheckInRadiusMeters,
		"poll_interval_seconds":    cfg.PollIntervalSeconds,
		"grid_gender_gate_enabled": cfg.GridGenderGateEnabled,
	})
}
