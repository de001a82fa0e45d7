package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/shop_backend/models"
	"github.com/gin-gonic/gin"
)

func GetInventoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := models.GetInventory(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetInventorySummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := models.GetInventorySummary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func GetDashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetDashboardStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
