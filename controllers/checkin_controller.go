package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/geo"
	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/repository"
	"github.com/hirlapp/hirl-server/services"
	"github.com/hirlapp/hirl-server/utils"
	"github.com/hirlapp/hirl-server/visibility"
)

// CheckInController exposes the check-in lifecycle and the per-venue people grid.
type CheckInController struct {
	db       *gorm.DB
	service  *services.CheckInService
	checkIns *repository.CheckInRepository
	blocks   *repository.BlockRepository
	policy   *visibility.Policy
}

// NewCheckInController creates a CheckInController.
func NewCheckInController(db *gorm.DB, service *services.CheckInService, checkIns *repository.CheckInRepository, blocks *repository.BlockRepository, policy *visibility.Policy) *CheckInController {
	return &CheckInController{db: db, service: service, checkIns: checkIns, blocks: blocks, policy: policy}
}

// CheckIn records the caller's presence at the venue. The client must send its
// current coordinates; the server re-validates range regardless of what the map UI
// showed. Any prior active check-in is superseded in the same write.
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	type request struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	// An absent or malformed body reads as an unknown position; the range guard
	// below refuses it rather than 400ing.
	var req request
	_ = ctx.ShouldBindJSON(&req)

	venue, ok := c.venueByParam(ctx)
	if !ok {
		return
	}

	user, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	pos := &geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	if !pos.Valid() {
		pos = nil
	}

	rec, err := c.service.CheckIn(ctx.Request.Context(), user, venue, pos)
	if err != nil {
		if errors.Is(err, services.ErrOutOfRange) {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42260, "too far from venue to check in")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to check in")
		return
	}
	utils.Success(ctx, rec)
}

// CheckOut deactivates the caller's check-in. Only the owner may check out.
func (c *CheckInController) CheckOut(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, 40061)
	if !ok {
		return
	}

	email := getUserEmail(ctx)
	rec, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load check-in")
		return
	}
	if rec == nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "check-in not found")
		return
	}
	if !strings.EqualFold(rec.UserEmail, email) {
		utils.Error(ctx, http.StatusForbidden, 40360, "not your check-in")
		return
	}

	if err := c.service.CheckOut(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotActive) {
			utils.Error(ctx, http.StatusConflict, 40960, "check-in is already inactive")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to check out")
		return
	}
	utils.Success(ctx, gin.H{"checked_out": true})
}

// ActiveCheckIn returns the caller's current active check-in, or null.
func (c *CheckInController) ActiveCheckIn(ctx *gin.Context) {
	rec, err := c.service.ActiveCheckInFor(ctx.Request.Context(), getUserEmail(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load check-in")
		return
	}
	utils.Success(ctx, rec)
}

// People returns the check-ins at a venue that the caller is allowed to see, after
// blocks, private mode, seeking preference and the optional gender gate.
func (c *CheckInController) People(ctx *gin.Context) {
	venue, ok := c.venueByParam(ctx)
	if !ok {
		return
	}

	viewer, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	active, err := c.checkIns.ActiveByVenue(ctx.Request.Context(), venue.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to load people")
		return
	}

	blocks, err := c.blocks.Involving(ctx.Request.Context(), viewer.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to load blocks")
		return
	}

	visible := c.policy.Visible(viewer, active, blocks)
	utils.Success(ctx, gin.H{
		"venue_id": venue.ID,
		"people":   visible,
		"total":    len(visible),
	})
}

func (c *CheckInController) currentUser(ctx *gin.Context) (*models.User, bool) {
	var user models.User
	if err := c.db.Where("email = ?", getUserEmail(ctx)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40461, "account not found")
		return nil, false
	}
	return &user, true
}

func (c *CheckInController) venueByParam(ctx *gin.Context) (*models.Venue, bool) {
	idStr := strings.TrimSpace(ctx.Param("id"))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40062, "invalid venue id")
		return nil, false
	}
	var venue models.Venue
	if err := c.db.First(&venue, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40462, "venue not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load venue")
		return nil, false
	}
	if !venue.IsActive {
		utils.Error(ctx, http.StatusNotFound, 40463, "venue not found")
		return nil, false
	}
	return &venue, true
}

// parseIDParam parses the :id path parameter, writing the error response on failure.
func parseIDParam(ctx *gin.Context, errCode int) (uint, bool) {
	idStr := strings.TrimSpace(ctx.Param("id"))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, errCode, "invalid id")
		return 0, false
	}
	return uint(id), true
}
