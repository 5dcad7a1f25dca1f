package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/roadwatch/highway-incident-api/internal/middleware"
	"github.com/roadwatch/highway-incident-api/internal/models"
)

func userFromContext(c *gin.Context) *models.User {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
