package main

import (
	"time"

	"github.com/hirlapp/hirl-server/config"
	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/routes"
	"github.com/hirlapp/hirl-server/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Venue{}, &models.CheckIn{}, &models.Ping{}, &models.Block{})

	r := routes.SetupRouter(db)

	// Auto-checkout stale check-ins in the background (best-effort)
	utils.StartCheckInSweeper(db, 5*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
