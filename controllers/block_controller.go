package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirlapp/hirl-server/repository"
	"github.com/hirlapp/hirl-server/utils"
)

// BlockController manages the caller's block list. Blocking is mutual for
// visibility but only the blocker can undo it.
type BlockController struct {
	blocks *repository.BlockRepository
}

// NewBlockController creates a BlockController.
func NewBlockController(blocks *repository.BlockRepository) *BlockController {
	return &BlockController{blocks: blocks}
}

// Block hides another user from the caller and vice versa. Idempotent.
func (b *BlockController) Block(ctx *gin.Context) {
	type request struct {
		Email string `json:"email" binding:"required,email"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid block payload")
		return
	}

	blocker := getUserEmail(ctx)
	blocked := strings.ToLower(strings.TrimSpace(req.Email))
	if strings.EqualFold(blocker, blocked) {
		utils.Error(ctx, http.StatusBadRequest, 40081, "cannot block yourself")
		return
	}

	if err := b.blocks.Create(ctx.Request.Context(), blocker, blocked); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to block user")
		return
	}
	utils.Success(ctx, gin.H{"blocked": blocked})
}

// Unblock removes a block edge the caller created.
func (b *BlockController) Unblock(ctx *gin.Context) {
	blocked := strings.ToLower(strings.TrimSpace(ctx.Param("email")))
	if blocked == "" || !strings.Contains(blocked, "@") {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid email")
		return
	}

	blocker := getUserEmail(ctx)
	removed, err := b.blocks.Delete(ctx.Request.Context(), blocker, blocked)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to unblock user")
		return
	}
	if !removed {
		utils.Error(ctx, http.StatusNotFound, 40480, "block not found")
		return
	}
	utils.Success(ctx, gin.H{"unblocked": blocked})
}

// List returns the block edges the caller created, newest first.
func (b *BlockController) List(ctx *gin.Context) {
	edges, err := b.blocks.ByBlocker(ctx.Request.Context(), getUserEmail(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load blocks")
		return
	}
	utils.Success(ctx, gin.H{"blocks": edges, "total": len(edges)})
}
