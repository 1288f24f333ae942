package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yunyunfunnydays/hookloop-server/common/errors"
	"github.com/yunyunfunnydays/hookloop-server/middleware"
	"github.com/yunyunfunnydays/hookloop-server/models"
	"github.com/yunyunfunnydays/hookloop-server/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IUserFinder loads the authenticated user's document.
type IUserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// IOrderService is the slice of the order service the plan endpoints use.
type IOrderService interface {
	CreateOrder(ctx context.Context, user *models.User, targetPlan string) (*services.CreateOrderResult, error)
	HandleNotify(ctx context.Context, hexCiphertext, checksum string) error
}

type PlanController struct {
	Service IOrderService
	Users   IUserFinder
}

func NewPlanController(service IOrderService, users IUserFinder) *PlanController {
	return &PlanController{Service: service, Users: users}
}

// CreateOrder handles POST /plan/order: builds the encrypted gateway payload
// for the requested paid plan and persists the UN-PAID order.
func (pc *PlanController) CreateOrder(c *gin.Context) {
	var req struct {
		TargetPlan string `json:"targetPlan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidation("plan for payment is required"))
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := pc.Users.FindByID(c, userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := pc.Service.CreateOrder(c, user, req.TargetPlan)
	if err != nil {
		c.Error(err)
		return
	}

	sendSuccess(c, http.StatusOK, "create order successfully", result)
}
