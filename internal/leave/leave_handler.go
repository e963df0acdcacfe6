package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

const idempotentResponseTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// NewHandlerWithRedis enables idempotent replay for the request endpoint.
func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Message, nil)
}

func (h *Handler) GetBalance(c *gin.Context) {
	employeeID := c.GetString(middleware.CtxPrincipalID)

	resp, err := h.service.GetBalance(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave balance retrieved successfully", resp)
}

func (h *Handler) RequestLeave(c *gin.Context) {
	employeeID := c.GetString(middleware.CtxPrincipalID)

	var req RequestLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.RequestLeave(c.Request.Context(), employeeID, req)
	if err != nil {
		h.releaseIdempotencyLock(c)
		writeServiceError(c, err)
		return
	}

	env := response.Envelope{
		Success: true,
		Message: "Leave request approved",
		Data:    resp,
	}
	h.storeIdempotentResponse(c, env)
	c.JSON(http.StatusCreated, env)
}

func (h *Handler) GetHistory(c *gin.Context) {
	employeeID := c.GetString(middleware.CtxPrincipalID)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.service.History(c.Request.Context(), employeeID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave history retrieved successfully", resp)
}

func (h *Handler) CancelRequest(c *gin.Context) {
	employeeID := c.GetString(middleware.CtxPrincipalID)
	requestID := c.Param("requestId")

	resp, err := h.service.Cancel(c.Request.Context(), employeeID, requestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave request cancelled successfully", resp)
}

func (h *Handler) GetAllBalances(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	supervisor := c.Query("supervisor")

	resp, err := h.service.ListBalances(c.Request.Context(), supervisor, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave balances retrieved successfully", resp)
}

func (h *Handler) ResetBalance(c *gin.Context) {
	actorID := c.GetString(middleware.CtxPrincipalID)
	employeeID := c.Param("userId")

	var req ResetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.Reset(c.Request.Context(), actorID, employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave balance reset successfully", resp)
}

func (h *Handler) AdjustBalance(c *gin.Context) {
	actorID := c.GetString(middleware.CtxPrincipalID)
	employeeID := c.Param("userId")

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), actorID, employeeID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave balance adjusted successfully", resp)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	resp, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave statistics retrieved successfully", resp)
}

// storeIdempotentResponse caches the success envelope under the key the
// idempotency middleware reserved, then releases the in-flight lock.
func (h *Handler) storeIdempotentResponse(c *gin.Context, env response.Envelope) {
	if h.rdb == nil {
		return
	}
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" {
		return
	}
	if body, err := json.Marshal(env); err == nil {
		h.rdb.Set(c.Request.Context(), cacheKey, body, idempotentResponseTTL)
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

// releaseIdempotencyLock frees the lock on failure so the client can retry
// with the same key.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}
