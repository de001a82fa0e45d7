package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/shop_backend/models"
	"github.com/gin-gonic/gin"
)

type paymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
}

func ListPurchaseOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.OrderFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondError(c, err)
			return
		}
		orders, err := models.ListPurchaseOrders(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetPurchaseOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CreatePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func SetPurchaseOrderPaymentStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req paymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.SetPurchaseOrderPaymentStatus(c.Request.Context(), id, req.PaymentStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func ListSalesOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.OrderFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondError(c, err)
			return
		}
		orders, err := models.ListSalesOrders(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetSalesOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CreateSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSalesOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.CreateSalesOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func SetSalesOrderPaymentStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req paymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		order, err := models.SetSalesOrderPaymentStatus(c.Request.Context(), id, req.PaymentStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
