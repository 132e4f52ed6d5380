package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"meal-service/middleware"
	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "code": svcErr.Code})
}

// respondBindError reports payload validation failures. A bad weekday keeps its
// domain code so clients see the same error as the service would return.
func respondBindError(ctx *gin.Context, err error) {
	code := services.CodeValidation
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == weekdayTag {
				code = services.CodeInvalidWeekday
				break
			}
		}
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "code": code, "details": err.Error()})
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": services.CodeValidation})
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "UNAUTHORIZED"})
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// dateQuery parses an optional YYYY-MM-DD query value; the first non-empty key wins.
func dateQuery(ctx *gin.Context, keys ...string) (*time.Time, bool) {
	for _, key := range keys {
		raw := ctx.Query(key)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid "+key+", expected YYYY-MM-DD")
			return nil, false
		}
		return &d, true
	}
	return nil, true
}

// parsePaginationParams extracts page and limit, clamping limit to max.
func parsePaginationParams(ctx *gin.Context, defLimit, max int) (int, int) {
	page, limit := defaultPage, defLimit
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 {
		limit = l
		if limit > max {
			limit = max
		}
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) gin.H {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return gin.H{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
		"has_more":    total > int64(page*limit),
	}
}
