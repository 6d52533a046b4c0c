package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/middleware"
	"channel-escrow-backend/internal/features/transfer/models"
	"channel-escrow-backend/internal/features/transfer/service"
)

const serviceName = "channel-escrow-backend"

type TransferHandler struct {
	service service.TransferService
}

func NewTransferHandler(service service.TransferService) *TransferHandler {
	return &TransferHandler{
		service: service,
	}
}

func (h *TransferHandler) RegisterRoutes(router *gin.Engine, sharedSecret string) {
	router.GET("/health", h.health)
	router.GET("/", h.index)

	api := router.Group("/api")
	api.Use(middleware.RequireSharedSecret(sharedSecret))
	{
		api.POST("/join-channel", h.joinChannel)
		api.POST("/check-ownership", h.checkOwnership)
		api.POST("/transfer-ownership", h.transferOwnership)
	}
}

func (h *TransferHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   serviceName,
	})
}

func (h *TransferHandler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": serviceName,
		"version": "1.0.0",
		"endpoints": []string{
			"GET /health",
			"POST /api/join-channel",
			"POST /api/check-ownership",
			"POST /api/transfer-ownership",
		},
	})
}

func (h *TransferHandler) joinChannel(c *gin.Context) {
	var req models.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChannelUsername == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "channelUsername is required"})
		return
	}

	result, err := h.service.JoinChannel(c.Request.Context(), req.ChannelUsername)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TransferHandler) checkOwnership(c *gin.Context) {
	var req models.CheckOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChannelUsername == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "channelUsername is required"})
		return
	}

	result, err := h.service.CheckOwnership(c.Request.Context(), req.ChannelUsername)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
			"error":       err.Error(),
			"isOwner":     false,
			"currentRole": "error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TransferHandler) transferOwnership(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "jobId, channelUsername and buyerUsername are required"})
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), req)
	if err != nil {
		appErr, ok := apperrors.AsAppError(err)
		if ok && appErr.Code == apperrors.ErrCodePrecondition {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":       "Transfer not ready",
				"details":     appErr.Details,
				"instruction": sellerInstructionOf(appErr),
			})
			return
		}
		if ok && appErr.Code == apperrors.ErrCodeValidation {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}

		// Full trace in the body: this endpoint is only reachable with the
		// shared secret, and the dispatcher stores the trace with the job.
		stack := ""
		if ok {
			stack = strings.Join(appErr.Stack, "\n")
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"stack": stack,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Channel ownership transferred to buyer",
		"jobId":            result.JobID,
		"transferComplete": true,
		"steps":            result.Steps,
	})
}

// sellerInstructionOf extracts the instruction detail of a precondition error,
// falling back to the canonical wording.
func sellerInstructionOf(appErr *apperrors.AppError) string {
	if v, ok := appErr.Details["instruction"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return service.SellerInstruction
}
