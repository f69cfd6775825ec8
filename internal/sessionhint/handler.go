package sessionhint

import (
	"errors"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/domain"
	"gamehub_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// allowedKeys lists the hints clients may set.
var allowedKeys = map[string]struct{}{
	domain.GamerIDHintKey: {},
}

// Handler lets clients record session hints before they sign up.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a new session hint handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger.Named("SessionHintHandler")}
}

// RegisterRoutes sets up the session hint routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	hints := router.Group("/session/hints")
	hints.PUT("/:key", h.putHint)
}

// PutHintRequest is the body of PUT /session/hints/:key.
type PutHintRequest struct {
	Value string `json:"value" binding:"required,max=256"`
}

func (h *Handler) putHint(c *gin.Context) {
	log := middleware.RequestLogger(c, h.logger)

	key := c.Param("key")
	if _, ok := allowedKeys[key]; !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown session hint."))
		return
	}

	sessionID := c.GetHeader(common.SessionIDHeader)
	if sessionID == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("The "+common.SessionIDHeader+" header is required."))
		return
	}

	var req PutHintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.store.Write(c.Request.Context(), sessionID, key, req.Value); err != nil {
		if errors.Is(err, ErrSessionRequired) {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
			return
		}
		log.Error("Failed to store session hint", zap.Error(err), zap.String("key", key))
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Session hints are temporarily unavailable."))
		return
	}
	common.RespondNoContent(c)
}
