package api

import (
	"net/http"

	"github.com/Manubolla/Dummyshop/internal/notification/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	scheduler *service.Scheduler
}

func NewNotificationHandler(s *service.Scheduler) *NotificationHandler {
	return &NotificationHandler{scheduler: s}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/notifications", h.ListNotifications)
}

// ListNotifications returns the delivered inbox and what is still queued.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"delivered": h.scheduler.Delivered(),
		"pending":   h.scheduler.Pending(),
	})
}
