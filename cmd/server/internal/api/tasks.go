package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskchat/taskchat/cmd/server/internal/middleware"
	"github.com/taskchat/taskchat/cmd/server/internal/store"
)

// createTaskRequest is the body of POST /api/v1/tasks.
type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

// updateTaskRequest is the body of PUT /api/v1/tasks/:id. Absent fields are
// left untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		badRequestResponse(c, "invalid task id")
		return 0, false
	}
	return uint(id), true
}

// HandleListTasks GET /api/v1/tasks?status=all|pending|completed
func HandleListTasks(tasks *store.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.DefaultQuery("status", store.StatusAll)
		switch status {
		case store.StatusAll, store.StatusPending, store.StatusCompleted:
		default:
			badRequestResponse(c, "status must be one of: all, pending, completed")
			return
		}

		list, err := tasks.List(c.Request.Context(), middleware.Owner(c), status)
		if err != nil {
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// HandleCreateTask POST /api/v1/tasks
func HandleCreateTask(tasks *store.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "invalid request body: title is required and must be at most 200 characters")
			return
		}

		task, err := tasks.Create(c.Request.Context(), middleware.Owner(c), req.Title, req.Description)
		if err != nil {
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

// HandleUpdateTask PUT /api/v1/tasks/:id
func HandleUpdateTask(tasks *store.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := taskID(c)
		if !ok {
			return
		}

		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "invalid request body")
			return
		}
		if req.Title != nil && (*req.Title == "" || len(*req.Title) > 200) {
			badRequestResponse(c, "title must be 1-200 characters")
			return
		}
		if req.Description != nil && len(*req.Description) > 1000 {
			badRequestResponse(c, "description must be at most 1000 characters")
			return
		}

		task, err := tasks.Update(c.Request.Context(), middleware.Owner(c), id, store.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Completed:   req.Completed,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFoundResponse(c, "task")
				return
			}
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// HandleDeleteTask DELETE /api/v1/tasks/:id
func HandleDeleteTask(tasks *store.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := taskID(c)
		if !ok {
			return
		}

		if err := tasks.Delete(c.Request.Context(), middleware.Owner(c), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFoundResponse(c, "task")
				return
			}
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "deleted",
			"task_id": id,
		})
	}
}

// HandleCompleteTask PATCH /api/v1/tasks/:id/complete
func HandleCompleteTask(tasks *store.TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := taskID(c)
		if !ok {
			return
		}

		task, err := tasks.SetCompleted(c.Request.Context(), middleware.Owner(c), id, true)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFoundResponse(c, "task")
				return
			}
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}
