package controllers

import (
	"net/http"
	"strconv"

	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
)

// MotdController serves the per-weekday meal-of-the-day options.
type MotdController struct {
	motd services.MotdService
}

func NewMotdController(motd services.MotdService) *MotdController {
	return &MotdController{motd: motd}
}

// ListOptions handles GET /motd and GET /admin/motd. Accepts weekday=0..6 or date=YYYY-MM-DD; defaults to today.
func (mc *MotdController) ListOptions(ctx *gin.Context) {
	var weekday *int
	if raw := ctx.Query("weekday"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid weekday")
			return
		}
		weekday = &d
	} else {
		date, ok := dateQuery(ctx, "date")
		if !ok {
			return
		}
		if date != nil {
			d := models.Weekday(*date)
			weekday = &d
		}
	}

	rows, svcErr := mc.motd.ListOptions(ctx.Request.Context(), weekday)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"options": rows, "count": len(rows)})
}

// SetOption handles PUT /admin/motd.
func (mc *MotdController) SetOption(ctx *gin.Context) {
	var req models.SetMotdRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	row, svcErr := mc.motd.SetOption(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "MOTD saved", "option": row})
}
