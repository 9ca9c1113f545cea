package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/pkg/metrics"
	"github.com/polkiloo/storerating/internal/server/http/dto"
	"github.com/polkiloo/storerating/internal/server/http/middleware"
)

// AuthHandler processes login, registration and profile lookups.
type AuthHandler struct {
	facade AuthFacade
	logger *slog.Logger
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, logger: logger}
}

// Login handles POST /login and POST /api/auth.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginBadRequest).Inc()
		message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, err := h.facade.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMissingField):
			metrics.LoginAttempts.WithLabelValues(metrics.LoginBadRequest).Inc()
			message(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues(metrics.LoginInvalidCredentials).Inc()
			h.logger.Info("login rejected",
				slog.String("request_id", requestID(c)),
				slog.String("client_ip", c.ClientIP()),
			)
			message(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			metrics.LoginAttempts.WithLabelValues(metrics.LoginError).Inc()
			h.logger.Error("login failed",
				slog.String("request_id", requestID(c)),
				slog.String("error", err.Error()),
			)
			message(c, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	metrics.LoginAttempts.WithLabelValues(metrics.LoginSuccess).Inc()
	middleware.SetAuthCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    toUserResponse(session.User),
		Token:   session.Token,
	})
}

// Probe handles GET /api/auth.
func (h *AuthHandler) Probe(c *gin.Context) {
	message(c, http.StatusOK, "Auth endpoint is working! Use POST to login.")
}

// Register handles POST and PUT /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	err := h.facade.Register(c.Request.Context(), model.Registration{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Address:         req.Address,
		Role:            model.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMissingField):
			message(c, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, domainErrors.ErrPasswordMismatch):
			message(c, http.StatusBadRequest, "Passwords do not match")
		case errors.Is(err, domainErrors.ErrInvalidEmail):
			message(c, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, domainErrors.ErrInvalidRole):
			message(c, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, domainErrors.ErrPasswordTooLong):
			message(c, http.StatusBadRequest, "Password must be at most 72 bytes")
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			message(c, http.StatusConflict, "Email already in use")
		default:
			h.logger.Error("registration failed",
				slog.String("request_id", requestID(c)),
				slog.String("error", err.Error()),
			)
			message(c, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{Success: true, Message: "User registered successfully!"})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := CurrentClaims(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	view, err := h.facade.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			message(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("profile lookup failed",
			slog.String("request_id", requestID(c)),
			slog.String("error", err.Error()),
		)
		message(c, http.StatusInternalServerError, msgServerError)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*view))
}
