// File: internal/signup/handler.go
package signup

import (
	"context"
	"time"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Provisioner runs one signup attempt.
type Provisioner interface {
	Provision(ctx context.Context, req SignupRequest) Outcome
}

// Handler exposes the signup workflow over HTTP. It only renders outcomes;
// every decision is made by the Provisioner.
type Handler struct {
	provisioner Provisioner
	timeout     time.Duration
	logger      *zap.Logger
}

// NewHandler creates a new signup handler.
func NewHandler(provisioner *Orchestrator, cfg *config.Config, logger *zap.Logger) *Handler {
	return newHandler(provisioner, cfg.SignupTimeout, logger)
}

func newHandler(provisioner Provisioner, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{provisioner: provisioner, timeout: timeout, logger: logger.Named("SignupHandler")}
}

// RegisterRoutes sets up the signup route.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup", h.signup)
}

// CreateAccountRequest is the JSON body of POST /signup. Fields are not bound
// with validation tags; the Validator owns field rules and their order.
type CreateAccountRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CreateAccountResponse is the data payload of a successful signup.
type CreateAccountResponse struct {
	UID         string            `json:"uid"`
	Destination Destination       `json:"destination"`
	Params      map[string]string `json:"params,omitempty"`
	Prompt      string            `json:"prompt,omitempty"`
}

func (h *Handler) signup(c *gin.Context) {
	log := middleware.RequestLogger(c, h.logger)

	var body CreateAccountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("Signup: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Request body must be a JSON object."))
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	outcome := h.provisioner.Provision(ctx, SignupRequest{
		FullName:        body.FullName,
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		SessionID:       c.GetHeader(common.SessionIDHeader),
	})

	switch outcome.Kind {
	case OutcomeSuccess:
		common.RespondCreated(c, "Account created successfully.", CreateAccountResponse{
			UID:         outcome.UID,
			Destination: outcome.Destination,
			Params:      outcome.Params,
			Prompt:      outcome.Prompt,
		})
	case OutcomeFieldError:
		common.RespondWithError(c, common.NewFieldAPIError(string(outcome.Field), string(outcome.Code), outcome.Message))
	default:
		log.Error("Signup failed", zap.String("reason", outcome.Message))
		common.RespondWithError(c, common.ErrProviderFailure.WithDetails(outcome.Message))
	}
}
