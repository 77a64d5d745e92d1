package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/repository"
	"github.com/hirlapp/hirl-server/utils"
)

// AdminController holds operator-only endpoints. Access is gated by the configured
// admin email list, on top of normal authentication.
type AdminController struct {
	db       *gorm.DB
	checkIns *repository.CheckInRepository
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB, checkIns *repository.CheckInRepository) *AdminController {
	return &AdminController{db: db, checkIns: checkIns}
}

// seedProfiles are demo accounts for staging and manual QA. Password is fixed and
// the accounts are force-checked into the first active venue so the people grid has
// content immediately.
var seedProfiles = []models.User{
	{
		Email:      "sarah_test@hirl.com",
		FullName:   "Sarah Martinez",
		Gender:     models.GenderFemale,
		Seeking:    models.GenderMale,
		Bio:        "Coffee addict & adventure seeker",
		Age:        26,
		StarSign:   "Leo",
		IsVerified: true,
		PhotoURL:   "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400",
	},
	{
		Email:      "jessica_test@hirl.com",
		FullName:   "Jessica Chen",
		Gender:     models.GenderFemale,
		Seeking:    models.GenderMale,
		Bio:        "Artist & music lover",
		Age:        24,
		StarSign:   "Gemini",
		IsVerified: true,
		PhotoURL:   "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400",
	},
	{
		Email:      "mike_test@hirl.com",
		FullName:   "Mike Thompson",
		Gender:     models.GenderMale,
		Seeking:    models.GenderFemale,
		Bio:        "Fitness enthusiast & foodie",
		Age:        28,
		StarSign:   "Aries",
		IsVerified: false,
		PhotoURL:   "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400",
	},
}

// SeedTestData upserts the demo accounts and checks them into the first active
// venue. Safe to call repeatedly.
func (a *AdminController) SeedTestData(ctx *gin.Context) {
	if !isAdminEmail(getUserEmail(ctx)) {
		utils.Error(ctx, http.StatusForbidden, 40390, "admin access required")
		return
	}

	var venue models.Venue
	if err := a.db.Where("is_active = ?", true).Order("id ASC").First(&venue).Error; err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42290, "no active venue to seed into")
		return
	}

	hash, err := utils.HashPassword("testpassword123")
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to seed accounts")
		return
	}

	seeded := make([]string, 0, len(seedProfiles))
	for _, profile := range seedProfiles {
		user := profile
		user.PasswordHash = hash

		var existing models.User
		err := a.db.Where("email = ?", user.Email).First(&existing).Error
		switch err {
		case nil:
			user.ID = existing.ID
			if err := a.db.Model(&existing).Updates(map[string]interface{}{
				"full_name":   user.FullName,
				"gender":      user.Gender,
				"seeking":     user.Seeking,
				"bio":         user.Bio,
				"age":         user.Age,
				"star_sign":   user.StarSign,
				"is_verified": user.IsVerified,
				"photo_url":   user.PhotoURL,
			}).Error; err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to seed accounts")
				return
			}
		case gorm.ErrRecordNotFound:
			if err := a.db.Create(&user).Error; err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to seed accounts")
				return
			}
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to seed accounts")
			return
		}

		rec := &models.CheckIn{
			UserEmail:       user.Email,
			UserName:        user.FullName,
			UserPhoto:       user.PhotoURL,
			UserGender:      user.Gender,
			UserBio:         user.Bio,
			UserPrivateMode: false,
			LocationID:      venue.ID,
			LocationName:    venue.Name,
			IsActive:        true,
		}
		if err := a.checkIns.SupersedeAndCreate(ctx.Request.Context(), rec); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to seed check-ins")
			return
		}
		seeded = append(seeded, user.Email)
	}

	// Seeding changes counters and presence immediately
	utils.InvalidateByPrefix("cache:stats:")

	utils.Success(ctx, gin.H{
		"seeded":   seeded,
		"venue_id": venue.ID,
	})
}
