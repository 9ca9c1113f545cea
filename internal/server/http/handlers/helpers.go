package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/server/http/dto"
	"github.com/polkiloo/storerating/internal/server/http/middleware"
)

const (
	msgInvalidBody  = "Invalid request body"
	msgServerError  = "Server error"
	msgUnauthorized = "Unauthorized"
)

// CurrentClaims extracts authenticated user claims from context.
func CurrentClaims(c *gin.Context) *model.Claims {
	val, ok := c.Get(middleware.ClaimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := val.(*model.Claims)
	return claims
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDContextKey)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.MessageResponse{Message: msg})
}

func toUserResponse(v model.UserView) dto.UserResponse {
	return dto.UserResponse{Name: v.Name, Email: v.Email, Role: string(v.Role)}
}
