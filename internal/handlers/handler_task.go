package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitcrm/record_console_app/internal/apperrors"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/orbitcrm/record_console_app/internal/middleware"
)

// taskHandler handles HTTP requests for the task record pipeline.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{taskService: ts}
}

// registerTaskRoutes registers all task-related routes.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.POST("/:id/status", h.changeTaskStatus)
		tasks.POST("/:id/delete-request", h.requestTaskDelete)
		tasks.POST("/:id/delete-confirm", h.confirmTaskDelete)
		tasks.POST("/:id/delete-cancel", h.cancelTaskDelete)
	}
}

// createTask godoc
// @Summary Create a task
// @Description Runs the create pipeline: validate, transform, submit upstream
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body dto.TaskForm true "Task form state"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 409 {object} map[string]string "Submission in flight"
// @Security BearerAuth
// @Router /tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var form dto.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Error("Failed to bind task form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sess, _ := middleware.GetSessionFromCtx(c.Request.Context())
	created, fieldErrs, err := h.taskService.SubmitCreate(c.Request.Context(), form, sess)
	if fieldErrs != nil {
		respondFieldErrors(c, fieldErrs)
		return
	}
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskResponse(*created))
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task UID"
// @Param task body dto.TaskForm true "Task form state"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var form dto.TaskForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Error("Failed to bind task form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sess, _ := middleware.GetSessionFromCtx(c.Request.Context())
	updated, fieldErrs, err := h.taskService.SubmitUpdate(c.Request.Context(), id, form, sess)
	if fieldErrs != nil {
		respondFieldErrors(c, fieldErrs)
		return
	}
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(*updated))
}

// getTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task UID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// listTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListTasksResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	var params dto.ListTasksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListTasksResponse(tasks))
}

// changeTaskStatus godoc
// @Summary One-click task status change
// @Description No-op when the requested status equals the current one
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task UID"
// @Param status body dto.TaskStatusChangeRequest true "Target status"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{id}/status [post]
func (h *taskHandler) changeTaskStatus(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var req dto.TaskStatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	updated, err := h.taskService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflictNoop) {
			c.JSON(http.StatusOK, gin.H{"message": "Status unchanged"})
			return
		}
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(*updated))
}

// requestTaskDelete godoc
// @Summary Request task deletion
// @Tags tasks
// @Produce json
// @Param id path int true "Task UID"
// @Success 200 {object} dto.DeleteRequestResponse
// @Security BearerAuth
// @Router /tasks/{id}/delete-request [post]
func (h *taskHandler) requestTaskDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	token, err := h.taskService.RequestDelete(c.Request.Context(), id)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteRequestResponse{ConfirmToken: token})
}

// confirmTaskDelete godoc
// @Summary Confirm task deletion
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task UID"
// @Param confirmation body dto.DeleteConfirmRequest true "Confirmation token"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "No pending confirmation"
// @Security BearerAuth
// @Router /tasks/{id}/delete-confirm [post]
func (h *taskHandler) confirmTaskDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var req dto.DeleteConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.taskService.ConfirmDelete(c.Request.Context(), id, req.ConfirmToken); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// cancelTaskDelete godoc
// @Summary Cancel a pending task deletion
// @Tags tasks
// @Produce json
// @Param id path int true "Task UID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tasks/{id}/delete-cancel [post]
func (h *taskHandler) cancelTaskDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	h.taskService.CancelDelete(id)
	c.JSON(http.StatusOK, gin.H{"message": "Delete cancelled"})
}
