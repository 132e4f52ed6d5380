package controllers

import (
	"net/http"

	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users services.UserService
}

func NewUserController(users services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) ListUsers(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx, defaultLimit, maxLimit)

	users, total, svcErr := uc.users.ListUsers(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"users": users, "meta": paginationMeta(page, limit, total)})
}

func (uc *UserController) CreateUser(ctx *gin.Context) {
	var req models.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, svcErr := uc.users.CreateUser(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (uc *UserController) GetUser(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	user, svcErr := uc.users.GetUser(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (uc *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	user, svcErr := uc.users.UpdateUser(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// DeactivateUser handles DELETE /users/:id. Users are never hard-deleted.
func (uc *UserController) DeactivateUser(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := uc.users.DeactivateUser(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}
