package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orbitcrm/record_console_app/internal/apperrors"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/orbitcrm/record_console_app/internal/middleware"
	"github.com/orbitcrm/record_console_app/internal/schema"
)

// clientHandler handles HTTP requests for the client record pipeline.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers all client-related routes.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.POST("/logo", h.stageCreateLogo)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.POST("/:id/status", h.changeClientStatus)
		clients.POST("/:id/logo", h.stageClientLogo)
		clients.POST("/:id/delete-request", h.requestClientDelete)
		clients.POST("/:id/delete-confirm", h.confirmClientDelete)
		clients.POST("/:id/delete-cancel", h.cancelClientDelete)
	}
}

func parseUID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return 0, false
	}
	return id, true
}

// respondFieldErrors renders a validation failure: the path-keyed map for
// inline messages plus the declaration-ordered list for the banner.
func respondFieldErrors(c *gin.Context, errs *schema.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":       "Validation failed",
		"fieldErrors": errs.FieldMap(),
		"errors":      errs.Ordered(),
	})
}

// respondPipelineError maps pipeline sentinels onto HTTP statuses.
func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, apperrors.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission for this record is already in flight"})
	case errors.Is(err, apperrors.ErrDeleteNotConfirmed):
		c.JSON(http.StatusConflict, gin.H{"error": "Delete has no pending confirmation"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSubmission):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream submission failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// createClient godoc
// @Summary Create a client
// @Description Runs the create pipeline: validate, upload staged logo, submit upstream
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.ClientForm true "Client form state"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 409 {object} map[string]string "Submission in flight"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var form dto.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Error("Failed to bind client form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sess, _ := middleware.GetSessionFromCtx(c.Request.Context())
	created, fieldErrs, err := h.clientService.SubmitCreate(c.Request.Context(), form, sess)
	if fieldErrs != nil {
		respondFieldErrors(c, fieldErrs)
		return
	}
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToClientResponse(*created))
}

// updateClient godoc
// @Summary Update a client
// @Description Runs the edit pipeline for an existing client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client UID"
// @Param client body dto.ClientForm true "Client form state"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 409 {object} map[string]string "Submission in flight"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var form dto.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		logger.Error("Failed to bind client form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	sess, _ := middleware.GetSessionFromCtx(c.Request.Context())
	updated, fieldErrs, err := h.clientService.SubmitUpdate(c.Request.Context(), id, form, sess)
	if fieldErrs != nil {
		respondFieldErrors(c, fieldErrs)
		return
	}
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(*updated))
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce json
// @Param id path int true "Client UID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(*client))
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListClientsResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	clients, err := h.clientService.ListClients(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// changeClientStatus godoc
// @Summary One-click status change
// @Description No-op when the requested status equals the current one; no upstream call is made
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client UID"
// @Param status body dto.ClientStatusChangeRequest true "Target status"
// @Success 200 {object} dto.ClientResponse
// @Security BearerAuth
// @Router /clients/{id}/status [post]
func (h *clientHandler) changeClientStatus(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var req dto.ClientStatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	updated, err := h.clientService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflictNoop) {
			c.JSON(http.StatusOK, gin.H{"message": "Status unchanged"})
			return
		}
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(*updated))
}

// stageClientLogo godoc
// @Summary Stage a logo for an existing client
// @Description The file is held until the next submission; a new file supersedes the previous one
// @Tags clients
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Client UID"
// @Param file formData file true "Logo image"
// @Success 202 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id}/logo [post]
func (h *clientHandler) stageClientLogo(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	h.stageLogo(c, id)
}

// stageCreateLogo stages a logo for the not-yet-created record slot.
func (h *clientHandler) stageCreateLogo(c *gin.Context) {
	h.stageLogo(c, 0)
}

func (h *clientHandler) stageLogo(c *gin.Context, id int64) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field"})
		return
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer file.Close()

	if err := h.clientService.StageLogo(id, header.Filename, file); err != nil {
		logger.Error("Failed to stage logo", slog.Int64("uid", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage file"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Logo staged for next submission"})
}

// requestClientDelete godoc
// @Summary Request client deletion
// @Description First step of the two-step delete; returns the confirmation token
// @Tags clients
// @Produce json
// @Param id path int true "Client UID"
// @Success 200 {object} dto.DeleteRequestResponse
// @Security BearerAuth
// @Router /clients/{id}/delete-request [post]
func (h *clientHandler) requestClientDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	token, err := h.clientService.RequestDelete(c.Request.Context(), id)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteRequestResponse{ConfirmToken: token})
}

// confirmClientDelete godoc
// @Summary Confirm client deletion
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client UID"
// @Param confirmation body dto.DeleteConfirmRequest true "Confirmation token"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "No pending confirmation"
// @Security BearerAuth
// @Router /clients/{id}/delete-confirm [post]
func (h *clientHandler) confirmClientDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	var req dto.DeleteConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.clientService.ConfirmDelete(c.Request.Context(), id, req.ConfirmToken); err != nil {
		respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

// cancelClientDelete godoc
// @Summary Cancel a pending client deletion
// @Tags clients
// @Produce json
// @Param id path int true "Client UID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{id}/delete-cancel [post]
func (h *clientHandler) cancelClientDelete(c *gin.Context) {
	id, ok := parseUID(c)
	if !ok {
		return
	}
	h.clientService.CancelDelete(id)
	c.JSON(http.StatusOK, gin.H{"message": "Delete cancelled"})
}
