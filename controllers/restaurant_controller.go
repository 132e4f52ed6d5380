package controllers

import (
	"net/http"

	"meal-service/middleware"
	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
)

// RestaurantController handles restaurants and their weekly availability.
type RestaurantController struct {
	restaurants  services.RestaurantService
	availability services.AvailabilityService
}

func NewRestaurantController(restaurants services.RestaurantService, availability services.AvailabilityService) *RestaurantController {
	return &RestaurantController{restaurants: restaurants, availability: availability}
}

// ListRestaurants handles GET /restaurants. Admins may pass is_active=all|true|false.
func (rc *RestaurantController) ListRestaurants(ctx *gin.Context) {
	filter := "true"
	if middleware.IsAdmin(ctx) {
		filter = ctx.DefaultQuery("is_active", "true")
	}
	if filter != "true" && filter != "false" && filter != "all" {
		badRequest(ctx, "is_active must be one of all, true, false")
		return
	}

	restaurants, svcErr := rc.restaurants.ListRestaurants(ctx.Request.Context(), filter == "true")
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	if filter == "false" {
		inactive := make([]models.Restaurant, 0, len(restaurants))
		for _, r := range restaurants {
			if !r.IsActive {
				inactive = append(inactive, r)
			}
		}
		restaurants = inactive
	}

	ctx.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "count": len(restaurants)})
}

func (rc *RestaurantController) GetRestaurant(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	restaurant, svcErr := rc.restaurants.GetRestaurant(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	if !restaurant.IsActive && !middleware.IsAdmin(ctx) {
		respondError(ctx, &services.ServiceError{StatusCode: http.StatusNotFound, Code: services.CodeRestaurantNotFound, Message: "Restaurant not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// CreateRestaurant handles POST /restaurants (admin only).
func (rc *RestaurantController) CreateRestaurant(ctx *gin.Context) {
	var req models.CreateRestaurantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	restaurant, svcErr := rc.restaurants.CreateRestaurant(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Restaurant created successfully", "restaurant": restaurant})
}

// UpdateRestaurant handles PUT /restaurants/:id (admin only).
func (rc *RestaurantController) UpdateRestaurant(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateRestaurantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	restaurant, svcErr := rc.restaurants.UpdateRestaurant(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Restaurant updated successfully", "restaurant": restaurant})
}

// DeactivateRestaurant handles DELETE /restaurants/:id (admin only).
func (rc *RestaurantController) DeactivateRestaurant(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := rc.restaurants.DeactivateRestaurant(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Restaurant deactivated"})
}

func (rc *RestaurantController) GetAvailability(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	days, svcErr := rc.availability.GetAvailability(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurant_id": id, "availability": days})
}

// SetAvailability handles PUT /restaurants/:id/availability (admin only).
func (rc *RestaurantController) SetAvailability(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.SetAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	days, svcErr := rc.availability.SetAvailability(ctx.Request.Context(), id, req.Weekdays)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Availability updated", "restaurant_id": id, "availability": days})
}
