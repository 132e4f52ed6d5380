package controllers

import (
	"net/http"

	"meal-service/middleware"
	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MenuController handles menus, menu items and menu uploads.
type MenuController struct {
	menus services.MenuService
	clock services.Clock
}

func NewMenuController(menus services.MenuService, clock services.Clock) *MenuController {
	return &MenuController{menus: menus, clock: clock}
}

// ListMenus handles GET /menus?restaurant_id=&date_from=&date_to=. Non-admins see active menus only.
func (mc *MenuController) ListMenus(ctx *gin.Context) {
	filter := models.MenuFilter{ActiveOnly: !middleware.IsAdmin(ctx) || ctx.Query("include_inactive") != "true"}

	if raw := ctx.Query("restaurant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(ctx, "Invalid restaurant_id")
			return
		}
		filter.RestaurantID = &id
	}
	var ok bool
	if filter.DateFrom, ok = dateQuery(ctx, "date_from"); !ok {
		return
	}
	if filter.DateTo, ok = dateQuery(ctx, "date_to"); !ok {
		return
	}

	menus, svcErr := mc.menus.ListMenus(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"menus": menus, "count": len(menus)})
}

// AvailableMenus handles GET /menus/available?date=, defaulting to today.
func (mc *MenuController) AvailableMenus(ctx *gin.Context) {
	date, ok := dateQuery(ctx, "date")
	if !ok {
		return
	}
	day := mc.clock.Today()
	if date != nil {
		day = *date
	}

	menus, svcErr := mc.menus.AvailableMenus(ctx.Request.Context(), day)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"date": models.FormatDate(day), "menus": menus})
}

func (mc *MenuController) GetMenu(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	menu, svcErr := mc.menus.GetMenu(ctx.Request.Context(), id, middleware.IsAdmin(ctx))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"menu": menu})
}

// CreateMenu handles POST /menus (admin only). The new menu supersedes the restaurant's active one.
func (mc *MenuController) CreateMenu(ctx *gin.Context) {
	var req models.CreateMenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	menu, svcErr := mc.menus.CreateMenu(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Menu created successfully", "menu": menu})
}

func (mc *MenuController) UpdateMenu(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateMenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	menu, svcErr := mc.menus.UpdateMenu(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu updated successfully", "menu": menu})
}

func (mc *MenuController) DeleteMenu(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := mc.menus.DeleteMenu(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu deleted"})
}

// AddMenuItem handles POST /menus/:id/items (admin only).
func (mc *MenuController) AddMenuItem(ctx *gin.Context) {
	menuID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.CreateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	item, svcErr := mc.menus.AddMenuItem(ctx.Request.Context(), menuID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Menu item created successfully", "item": item})
}

func (mc *MenuController) UpdateMenuItem(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	item, svcErr := mc.menus.UpdateMenuItem(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu item updated successfully", "item": item})
}

// DeleteMenuItem marks the item unavailable; ordered snapshots keep referencing it.
func (mc *MenuController) DeleteMenuItem(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := mc.menus.DeleteMenuItem(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// CreateUploadURL handles POST /menus/:id/upload-url (admin only).
func (mc *MenuController) CreateUploadURL(ctx *gin.Context) {
	menuID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UploadURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, svcErr := mc.menus.PresignMenuUpload(ctx.Request.Context(), menuID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
