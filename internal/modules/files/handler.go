package files

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"filesmanager/internal/domain"
	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the files service over HTTP.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the file routes. protected requires a session,
// optional resolves one when present.
func (h *Handler) RegisterRoutes(protected, optional *gin.RouterGroup) {
	if protected != nil {
		protected.POST("/files", h.Create)
		protected.GET("/files", h.List)
		protected.GET("/files/:id", h.Show)
		protected.PUT("/files/:id/publish", h.Publish)
		protected.PUT("/files/:id/unpublish", h.Unpublish)
	}

	if optional != nil {
		optional.GET("/files/:id/data", h.Data)
	}
}

// Create stores a folder, file or image.
// @Summary		Create a file
// @Description	Creates a folder record, or decodes the base64 payload to disk and records it. parentId must reference a folder.
// @Tags		Files
// @Security	XToken
// @Param		request	body	CreateFileRequest	true	"name, type, parentId, isPublic, data"
// @Success		201	{object}	map[string]interface{}	"Created record"
// @Failure		400	{object}	map[string]interface{}	"Missing or invalid field, bad parent"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		500	{object}	map[string]interface{}	"Storage failure"
// @Router		/files [POST]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	file, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, file)
}

// Show returns a record owned by the caller.
// @Summary		Get a file
// @Tags		Files
// @Security	XToken
// @Param		id	path	string	true	"File ID"
// @Success		200	{object}	map[string]interface{}	"Record"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Router		/files/:id [GET]
func (h *Handler) Show(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	file, err := h.svc.Show(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, file)
}

// List returns one page of children of a parent.
// @Summary		List files
// @Description	Returns up to 20 records with the given parentId (root when omitted), in insertion order.
// @Tags		Files
// @Security	XToken
// @Param		parentId	query	string	false	"Parent folder ID, 0 for root"
// @Param		page		query	int		false	"Zero-based page"
// @Success		200	{object}	map[string]interface{}	"Records"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Router		/files [GET]
func (h *Handler) List(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 0 {
		page = 0
	}
	parentID := domain.ParentID(c.Query("parentId"))

	items := make([]*domain.File, 0, PageSize)
	for f := range h.svc.List(c.Request.Context(), parentID, page) {
		items = append(items, f)
	}

	response.Success(c, http.StatusOK, items)
}

// Publish makes a file readable by anyone.
// @Summary		Publish a file
// @Tags		Files
// @Security	XToken
// @Param		id	path	string	true	"File ID"
// @Success		200	{object}	map[string]interface{}	"Updated record"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Router		/files/:id/publish [PUT]
func (h *Handler) Publish(c *gin.Context) {
	h.setVisibility(c, true)
}

// Unpublish restricts a file to its owner.
// @Summary		Unpublish a file
// @Tags		Files
// @Security	XToken
// @Param		id	path	string	true	"File ID"
// @Success		200	{object}	map[string]interface{}	"Updated record"
// @Failure		401	{object}	map[string]interface{}	"Unauthorized"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Router		/files/:id/unpublish [PUT]
func (h *Handler) Unpublish(c *gin.Context) {
	h.setVisibility(c, false)
}

func (h *Handler) setVisibility(c *gin.Context, public bool) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	file, err := h.svc.SetVisibility(c.Request.Context(), userID, c.Param("id"), public)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, file)
}

// Data streams the raw payload.
// @Summary		Get file content
// @Description	Public files are readable by anyone; private files only by their owner. Folders have no content.
// @Tags		Files
// @Param		id	path	string	true	"File ID"
// @Success		200	{file}		binary					"Raw bytes"
// @Failure		400	{object}	map[string]interface{}	"Folder has no content"
// @Failure		404	{object}	map[string]interface{}	"Not found"
// @Router		/files/:id/data [GET]
func (h *Handler) Data(c *gin.Context) {
	content, err := h.svc.Open(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer content.Body.Close()

	c.DataFromReader(http.StatusOK, content.Size, content.ContentType, content.Body, nil)
}

func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return "", false
	}
	return userID, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		code := "MISSING_" + strings.ToUpper(verr.Field)
		msg := "Missing " + verr.Field
		if verr.Invalid {
			code = "INVALID_" + strings.ToUpper(verr.Field)
			msg = "Invalid " + verr.Field
		}
		response.Error(c, http.StatusBadRequest, code, msg)
	case errors.Is(err, ErrParentNotFound):
		response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOUND", "Parent not found")
	case errors.Is(err, ErrParentNotAFolder):
		response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOLDER", "Parent is not a folder")
	case errors.Is(err, ErrInvalidOperation):
		response.Error(c, http.StatusBadRequest, "INVALID_OPERATION", "A folder doesn't have content")
	case errors.Is(err, ErrNotFound):
		h.log.Debug("file not found",
			zap.String("file_id", c.Param("id")),
			zap.String("reason", NotFoundReason(err)),
		)
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
