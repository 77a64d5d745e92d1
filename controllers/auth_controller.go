package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/config"
	"github.com/hirlapp/hirl-server/middleware"
	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/services"
	"github.com/hirlapp/hirl-server/utils"
)

const tokenTTL = 7 * 24 * time.Hour

// AuthController handles account registration, login and profile management.
type AuthController struct {
	db       *gorm.DB
	checkIns *services.CheckInService
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, checkIns *services.CheckInService) *AuthController {
	return &AuthController{db: db, checkIns: checkIns}
}

// Register creates a local account with a bcrypt-hashed password and returns a token
// so the client can proceed straight into the app.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		FullName string `json:"full_name" binding:"required,min=1,max=128"`
		Gender   string `json:"gender" binding:"required"`
		Seeking  string `json:"seeking"`
		Bio      string `json:"bio" binding:"max=512"`
		Age      int    `json:"age"`
		StarSign string `json:"star_sign" binding:"max=32"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid registration payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	if !models.ValidGender(gender) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid gender")
		return
	}
	seeking := strings.ToLower(strings.TrimSpace(req.Seeking))
	if seeking == "" {
		seeking = models.SeekingEveryone
	}
	if !models.ValidSeeking(seeking) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid seeking preference")
		return
	}

	var existing models.User
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check existing account")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to secure password")
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     utils.Sanitize(strings.TrimSpace(req.FullName)),
		Gender:       gender,
		Seeking:      seeking,
		Bio:          utils.Sanitize(strings.TrimSpace(req.Bio)),
		Age:          req.Age,
		StarSign:     utils.Sanitize(strings.TrimSpace(req.StarSign)),
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create account")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  sanitizeUserResponse(user),
	})
}

// Login authenticates by email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid login payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		// Same message for unknown email and wrong password
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  sanitizeUserResponse(user),
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing bearer token")
		return
	}
	claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "invalid token")
		return
	}
	expires := time.Now().Add(tokenTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(claims.ID, expires)
	utils.Success(ctx, gin.H{"logged_out": true})
}

// Me returns the caller's own profile.
func (a *AuthController) Me(ctx *gin.Context) {
	email := getUserEmail(ctx)
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "account not found")
		return
	}
	utils.Success(ctx, sanitizeUserResponse(user))
}

// UpdateProfile patches mutable profile fields. Pointer fields distinguish "omitted"
// from "set to zero value" so a PATCH only touches what the client sent.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	type request struct {
		FullName    *string `json:"full_name"`
		Seeking     *string `json:"seeking"`
		Bio         *string `json:"bio"`
		Age         *int    `json:"age"`
		StarSign    *string `json:"star_sign"`
		PhotoURL    *string `json:"photo_url"`
		PrivateMode *bool   `json:"private_mode"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid profile payload")
		return
	}

	email := getUserEmail(ctx)
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "account not found")
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		name := utils.Sanitize(strings.TrimSpace(*req.FullName))
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40031, "full name cannot be empty")
			return
		}
		updates["full_name"] = name
	}
	if req.Seeking != nil {
		seeking := strings.ToLower(strings.TrimSpace(*req.Seeking))
		if !models.ValidSeeking(seeking) {
			utils.Error(ctx, http.StatusBadRequest, 40032, "invalid seeking preference")
			return
		}
		updates["seeking"] = seeking
	}
	if req.Bio != nil {
		updates["bio"] = utils.Sanitize(strings.TrimSpace(*req.Bio))
	}
	if req.Age != nil {
		if *req.Age < 18 || *req.Age > 120 {
			utils.Error(ctx, http.StatusBadRequest, 40033, "invalid age")
			return
		}
		updates["age"] = *req.Age
	}
	if req.StarSign != nil {
		updates["star_sign"] = utils.Sanitize(strings.TrimSpace(*req.StarSign))
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = strings.TrimSpace(*req.PhotoURL)
	}
	if req.PrivateMode != nil {
		updates["private_mode"] = *req.PrivateMode
	}
	if len(updates) == 0 {
		utils.Success(ctx, sanitizeUserResponse(user))
		return
	}

	if err := a.db.Model(&user).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to update profile")
		return
	}

	// Name/photo/bio snapshots on existing check-ins stay frozen; future check-ins
	// pick them up. Privacy is the exception: going private must take effect on the
	// next grid fetch, so it propagates to the active check-in row.
	if req.PrivateMode != nil {
		if err := a.checkIns.SetPrivateMode(ctx.Request.Context(), user.Email, *req.PrivateMode); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update privacy")
			return
		}
	}
	utils.Success(ctx, sanitizeUserResponse(user))
}

// sanitizeUserResponse strips fields that must never leave the server.
func sanitizeUserResponse(user models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"gender":       user.Gender,
		"seeking":      user.Seeking,
		"bio":          user.Bio,
		"age":          user.Age,
		"star_sign":    user.StarSign,
		"is_verified":  user.IsVerified,
		"photo_url":    user.PhotoURL,
		"private_mode": user.PrivateMode,
		"created_at":   user.CreatedAt,
	}
}

// getUserEmail returns the authenticated caller's email from the Gin context.
func getUserEmail(ctx *gin.Context) string {
	if v, ok := ctx.Get(middleware.ContextEmailKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// isAdminEmail reports whether the email is in the configured admin list.
func isAdminEmail(email string) bool {
	for _, admin := range config.Get().AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}
