package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yunyunfunnydays/hookloop-server/common/errors"
	commonmw "github.com/yunyunfunnydays/hookloop-server/common/middleware"
	"github.com/yunyunfunnydays/hookloop-server/controllers"
	"github.com/yunyunfunnydays/hookloop-server/middleware"
	"golang.org/x/time/rate"
)

// RegisterPlanRoutes wires the paid-plan endpoints. The order route requires
// the caller's identity; the two callbacks are invoked by the gateway and
// authenticate via the payload checksum instead.
func RegisterPlanRoutes(r *gin.Engine, pc *controllers.PlanController, cc *controllers.CallbackController, jwtSecret string) {
	limiter := commonmw.NewRateLimiter(rate.Every(time.Minute/100), 50, 10*time.Minute)

	plan := r.Group("/api/v1/plan")
	plan.Use(errors.ErrorMiddleware())

	plan.POST("/order",
		commonmw.RateLimitMiddleware(limiter),
		middleware.AuthMiddleware(jwtSecret),
		pc.CreateOrder)

	plan.POST("/notify", cc.Notify)
	plan.POST("/return", cc.Return)
}
