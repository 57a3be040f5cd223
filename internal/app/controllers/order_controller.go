package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// OrderController handles enrollment orders
type OrderController struct {
	orderService OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder enrolls the current user into a course
// @Summary Create an order
// @Tags orders
// @Security BearerAuth
// @Param request body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /create-order [post]
func (c *OrderController) CreateOrder(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindJSON(ctx, &req) {
		return
	}

	order, err := c.orderService.CreateOrder(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OrderResponse{Success: true, Message: "Order created successfully", Order: order})
}

// GetAllOrders lists every order for admins
func (c *OrderController) GetAllOrders(ctx *gin.Context) {
	orders, err := c.orderService.GetAllOrders(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OrdersResponse{Success: true, Orders: orders})
}
