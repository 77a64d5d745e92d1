package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/geo"
	"github.com/hirlapp/hirl-server/models"
	"github.com/hirlapp/hirl-server/utils"
)

const venueCacheKey = "cache:venues:active"

// VenueController serves venue discovery. The raw venue rows are cached in Redis;
// distances are computed per request because they depend on the caller's position.
type VenueController struct {
	db   *gorm.DB
	gate *geo.Gate
}

// NewVenueController creates a VenueController.
func NewVenueController(db *gorm.DB, gate *geo.Gate) *VenueController {
	return &VenueController{db: db, gate: gate}
}

type venueListItem struct {
	models.Venue
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	ActiveCount    int64    `json:"active_count"`
}

// ListVenues returns active venues near the caller, nearest first. With no usable
// position every active venue is listed, unordered by distance, and check-in stays
// refused until the client provides one.
func (v *VenueController) ListVenues(ctx *gin.Context) {
	pos := parsePosition(ctx.Query("latitude"), ctx.Query("longitude"))

	venues, err := v.activeVenues(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load venues")
		return
	}

	counts, err := v.activeCounts(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load venue activity")
		return
	}

	items := make([]venueListItem, 0, len(venues))
	for i := range venues {
		venue := venues[i]
		if !v.gate.WithinDisplayRange(pos, &venue) {
			continue
		}
		item := venueListItem{Venue: venue, ActiveCount: counts[venue.ID]}
		if d, ok := v.gate.VenueDistance(pos, &venue); ok {
			dist := d
			item.DistanceMeters = &dist
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].DistanceMeters, items[j].DistanceMeters
		if di == nil || dj == nil {
			return di != nil
		}
		return *di < *dj
	})

	utils.Success(ctx, gin.H{
		"venues":                items,
		"display_radius_meters": v.gate.DisplayRadius(),
	})
}

// GetVenue returns a single venue with its live active count and, when the caller
// supplied a position, the distance to it.
func (v *VenueController) GetVenue(ctx *gin.Context) {
	venue, ok := v.venueByParam(ctx)
	if !ok {
		return
	}

	pos := parsePosition(ctx.Query("latitude"), ctx.Query("longitude"))

	var count int64
	if err := v.db.Model(&models.CheckIn{}).
		Where("location_id = ? AND is_active = ?", venue.ID, true).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load venue activity")
		return
	}

	item := venueListItem{Venue: *venue, ActiveCount: count}
	if d, ok := v.gate.VenueDistance(pos, venue); ok {
		dist := d
		item.DistanceMeters = &dist
	}
	utils.Success(ctx, item)
}

// activeVenues loads the active venue rows, Redis-cached for a short window.
func (v *VenueController) activeVenues(ctx *gin.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if utils.CacheGetJSON(venueCacheKey, &venues) {
		return venues, nil
	}
	err := v.db.Where("is_active = ?", true).Order("name ASC").Find(&venues).Error
	if err != nil {
		return nil, err
	}
	utils.CacheSetJSON(venueCacheKey, venues, 5*time.Minute)
	return venues, nil
}

// activeCounts returns active check-in counts keyed by venue ID. Never cached;
// presence must be fresh between polls.
func (v *VenueController) activeCounts(ctx *gin.Context) (map[uint]int64, error) {
	type row struct {
		LocationID uint
		N          int64
	}
	var rows []row
	err := v.db.Model(&models.CheckIn{}).
		Select("location_id, COUNT(*) AS n").
		Where("is_active = ?", true).
		Group("location_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.LocationID] = r.N
	}
	return counts, nil
}

// venueByParam resolves the :id path parameter to an active venue, writing the error
// response itself on failure.
func (v *VenueController) venueByParam(ctx *gin.Context) (*models.Venue, bool) {
	idStr := strings.TrimSpace(ctx.Param("id"))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid venue id")
		return nil, false
	}
	var venue models.Venue
	if err := v.db.First(&venue, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "venue not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load venue")
		return nil, false
	}
	if !venue.IsActive {
		utils.Error(ctx, http.StatusNotFound, 40441, "venue not found")
		return nil, false
	}
	return &venue, true
}

// parsePosition builds a Point from query or body strings. Anything unparsable or
// out of range yields nil, which downstream gates treat as unknown position.
func parsePosition(latStr, lngStr string) *geo.Point {
	latStr, lngStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr)
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	p := &geo.Point{Latitude: lat, Longitude: lng}
	if !p.Valid() {
		return nil
	}
	return p
}
