package handler

import (
	"net/http"
	"strconv"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/service"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the session lifecycle endpoints.
type SessionHandler struct {
	Service         *service.SessionService
	DefaultPageSize int
}

func NewSessionHandler(svc *service.SessionService, defaultPageSize int) *SessionHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 5
	}
	return &SessionHandler{
		Service:         svc,
		DefaultPageSize: defaultPageSize,
	}
}

// ---------- request structures ----------

type sessionReq struct {
	SessionName string `json:"session_name" binding:"required"`
	CustomerID  string `json:"customer_id" binding:"required"`
	Remarks     string `json:"remarks" binding:"required"`
	CreatedBy   string `json:"created_by" binding:"required"`
}

func (r sessionReq) toService() service.SessionRequest {
	return service.SessionRequest{
		SessionName: r.SessionName,
		CustomerID:  r.CustomerID,
		Remarks:     r.Remarks,
		CreatedBy:   r.CreatedBy,
	}
}

// ---------- create ----------

func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	resp, err := h.Service.Create(c.Request.Context(), req.toService())
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": service.MsgSessionCreated,
		"session": resp,
	})
}

// ---------- list ----------

// ListSessions serves GET /sessions/:status?page=0&page_size=5.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	status := c.Param("status")

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "page must be a number")
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.DefaultPageSize)))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "page_size must be a number")
		return
	}

	pageResp, err := h.Service.List(c.Request.Context(), status, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"sessions":       pageResp.Sessions,
		"total_elements": pageResp.TotalElements,
		"total_pages":    pageResp.TotalPages,
	})
}

// ---------- update ----------

func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	resp, err := h.Service.Update(c.Request.Context(), sessionID, req.toService())
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": service.MsgSessionUpdated,
		"session": resp,
	})
}

// ---------- delete ----------

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.Service.Delete(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": service.MsgSessionDeleted,
	})
}

// ---------- archive ----------

func (h *SessionHandler) ArchiveSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.Service.Archive(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": service.MsgSessionArchived,
	})
}
