package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/repository"
	"github.com/hirlapp/hirl-server/services"
	"github.com/hirlapp/hirl-server/utils"
)

// PingController exposes the directed ping workflow: send, acknowledge, poll
// incoming, list matches.
type PingController struct {
	db       *gorm.DB
	service  *services.PingService
	pings    *repository.PingRepository
	checkIns *repository.CheckInRepository
	blocks   *repository.BlockRepository
}

// NewPingController creates a PingController.
func NewPingController(db *gorm.DB, service *services.PingService, pings *repository.PingRepository, checkIns *repository.CheckInRepository, blocks *repository.BlockRepository) *PingController {
	return &PingController{db: db, service: service, pings: pings, checkIns: checkIns, blocks: blocks}
}

// SendPing sends a ping to another user. The sender must be actively checked in;
// the ping is scoped to that venue. Blocked pairs cannot ping each other.
func (p *PingController) SendPing(ctx *gin.Context) {
	type request struct {
		ToUserEmail string `json:"to_user_email" binding:"required,email"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid ping payload")
		return
	}

	email := getUserEmail(ctx)
	var sender models.User
	if err := p.db.Where("email = ?", email).First(&sender).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "account not found")
		return
	}

	active, err := p.checkIns.ActiveByUser(ctx.Request.Context(), sender.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load check-in")
		return
	}
	if active == nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42270, "check in somewhere before pinging")
		return
	}

	toEmail := strings.ToLower(strings.TrimSpace(req.ToUserEmail))
	blocked, err := p.pairBlocked(ctx, sender.Email, toEmail)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to check blocks")
		return
	}
	if blocked {
		// Indistinguishable from a generic failure on purpose
		utils.Error(ctx, http.StatusUnprocessableEntity, 42271, "cannot ping this user")
		return
	}

	if !utils.PingCooldownTry(sender.Email) {
		utils.Error(ctx, http.StatusTooManyRequests, 42970, "pinging too quickly, slow down")
		return
	}
	if !utils.PingHourlyAllow(sender.Email) {
		utils.Error(ctx, http.StatusTooManyRequests, 42971, "hourly ping limit reached")
		return
	}

	venue := &models.Venue{ID: active.LocationID, Name: active.LocationName}
	ping, err := p.service.SendPing(ctx.Request.Context(), &sender, toEmail, venue)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfPing):
			utils.Error(ctx, http.StatusBadRequest, 40071, "cannot ping yourself")
		case errors.Is(err, services.ErrRecipientNotFound):
			utils.Error(ctx, http.StatusNotFound, 40472, "recipient not found")
		case errors.Is(err, services.ErrDuplicatePing):
			utils.Error(ctx, http.StatusConflict, 40970, "already pinged this user")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to send ping")
		}
		return
	}
	utils.Success(ctx, ping)
}

// MarkSeen acknowledges a pending ping addressed to the caller.
func (p *PingController) MarkSeen(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, 40072)
	if !ok {
		return
	}

	err := p.service.MarkSeen(ctx.Request.Context(), id, getUserEmail(ctx))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPingNotFound):
			utils.Error(ctx, http.StatusNotFound, 40471, "ping not found")
		case errors.Is(err, services.ErrPingNotPending):
			utils.Error(ctx, http.StatusConflict, 40971, "ping is not pending")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to acknowledge ping")
		}
		return
	}
	utils.Success(ctx, gin.H{"seen": true})
}

// ListIncoming returns pending pings addressed to the caller, newest first. Clients
// poll this endpoint for the notification feed.
func (p *PingController) ListIncoming(ctx *gin.Context) {
	pings, err := p.pings.IncomingByStatus(ctx.Request.Context(), getUserEmail(ctx), models.PingPending)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to load pings")
		return
	}
	utils.Success(ctx, gin.H{"pings": pings, "total": len(pings)})
}

// ListMatches returns the caller's matched partners, one entry per partner. A mutual
// match produces two matched ping rows; the newer row represents the pair.
func (p *PingController) ListMatches(ctx *gin.Context) {
	email := getUserEmail(ctx)
	matched, err := p.pings.MatchedInvolving(ctx.Request.Context(), email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to load matches")
		return
	}

	seen := map[string]bool{}
	out := make([]models.Ping, 0, len(matched))
	for _, m := range matched {
		partner := strings.ToLower(m.FromUserEmail)
		if strings.EqualFold(m.FromUserEmail, email) {
			partner = strings.ToLower(m.ToUserEmail)
		}
		if seen[partner] {
			continue
		}
		seen[partner] = true
		out = append(out, m)
	}
	utils.Success(ctx, gin.H{"matches": out, "total": len(out)})
}

// pairBlocked reports whether a block edge exists between the two users in either
// direction.
func (p *PingController) pairBlocked(ctx *gin.Context, a, b string) (bool, error) {
	edges, err := p.blocks.Involving(ctx.Request.Context(), a)
	if err != nil {
		return false, err
	}
	for _, e := range edges {
		if strings.EqualFold(e.BlockerEmail, b) || strings.EqualFold(e.BlockedEmail, b) {
			return true, nil
		}
	}
	return false, nil
}
