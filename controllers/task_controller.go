package controllers

import (
	"net/http"

	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
)

// TaskController exposes the dispatch tasks to an external cron.
type TaskController struct {
	runner services.TaskRunner
}

func NewTaskController(runner services.TaskRunner) *TaskController {
	return &TaskController{runner: runner}
}

// RunTask handles POST /tasks/run. The X-Task-Token check happens in middleware.
func (tc *TaskController) RunTask(ctx *gin.Context) {
	var req models.RunTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, svcErr := tc.runner.Run(ctx.Request.Context(), req.Task)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
