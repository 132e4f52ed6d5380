package routes

import (
	"net/http"
	"time"

	"meal-service/controllers"
	"meal-service/middleware"
	awspkg "meal-service/pkg/aws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "meal-service"

// Options configures the global middleware chain.
type Options struct {
	JWTSecret          string
	TaskToken          string
	CORSOrigins        []string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	Metrics            *awspkg.MetricsClient
	Logger             *zap.Logger
}

// Handlers bundles the controllers served under /api.
type Handlers struct {
	Restaurants *controllers.RestaurantController
	Menus       *controllers.MenuController
	Orders      *controllers.OrderController
	Admin       *controllers.AdminController
	Users       *controllers.UserController
	Tasks       *controllers.TaskController
	Motd        *controllers.MotdController
}

// NewRouter builds the engine with middleware and every route registered.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Metrics(opts.Metrics, serviceName))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Task-Token"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMinute))
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	RegisterTaskRoutes(api, h.Tasks, opts.TaskToken)

	authed := api.Group("")
	authed.Use(middleware.Auth(opts.JWTSecret))
	RegisterRestaurantRoutes(authed, h.Restaurants)
	RegisterMenuRoutes(authed, h.Menus)
	RegisterOrderRoutes(authed, h.Orders)
	RegisterAdminRoutes(authed, h.Admin)
	RegisterUserRoutes(authed, h.Users)
	RegisterMotdRoutes(authed, h.Motd)
	return r
}

func RegisterRestaurantRoutes(rg *gin.RouterGroup, rc *controllers.RestaurantController) {
	restaurantRoutes := rg.Group("/restaurants")
	restaurantRoutes.GET("", rc.ListRestaurants)
	restaurantRoutes.GET("/:id", rc.GetRestaurant)
	restaurantRoutes.GET("/:id/availability", rc.GetAvailability)

	adminRoutes := restaurantRoutes.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.POST("", rc.CreateRestaurant)
	adminRoutes.PUT("/:id", rc.UpdateRestaurant)
	adminRoutes.DELETE("/:id", rc.DeactivateRestaurant)
	adminRoutes.PUT("/:id/availability", rc.SetAvailability)
}

func RegisterMenuRoutes(rg *gin.RouterGroup, mc *controllers.MenuController) {
	menuRoutes := rg.Group("/menus")
	menuRoutes.GET("", mc.ListMenus)
	menuRoutes.GET("/available", mc.AvailableMenus)
	menuRoutes.GET("/:id", mc.GetMenu)

	adminRoutes := menuRoutes.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.POST("", mc.CreateMenu)
	adminRoutes.PUT("/:id", mc.UpdateMenu)
	adminRoutes.DELETE("/:id", mc.DeleteMenu)
	adminRoutes.POST("/:id/items", mc.AddMenuItem)
	adminRoutes.POST("/:id/upload-url", mc.CreateUploadURL)

	itemRoutes := rg.Group("/menu-items")
	itemRoutes.Use(middleware.AdminOnly())
	itemRoutes.PUT("/:id", mc.UpdateMenuItem)
	itemRoutes.DELETE("/:id", mc.DeleteMenuItem)
}

func RegisterOrderRoutes(rg *gin.RouterGroup, oc *controllers.OrderController) {
	orderRoutes := rg.Group("/orders")
	orderRoutes.GET("", oc.ListOrders)
	orderRoutes.POST("", oc.CreateOrder)
	orderRoutes.POST("/simple", oc.CreateFreeformOrder)
	orderRoutes.GET("/week", oc.WeeklyOrders)
	orderRoutes.GET("/missing-days", oc.MissingDays)
	orderRoutes.GET("/:id", oc.GetOrder)
	orderRoutes.PUT("/:id", oc.UpdateOrder)
	orderRoutes.PUT("/:id/simple", oc.UpdateFreeformOrder)
	orderRoutes.DELETE("/:id", oc.CancelOrder)
}

func RegisterAdminRoutes(rg *gin.RouterGroup, ac *controllers.AdminController) {
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.GET("/dashboard", ac.Dashboard)
	adminRoutes.GET("/orders", ac.ListOrders)
	adminRoutes.GET("/orders/summary", ac.OrdersSummary)
	adminRoutes.PUT("/orders/:id/status", ac.UpdateOrderStatus)
	adminRoutes.POST("/orders/send-to-restaurant", ac.SendToRestaurant)
	adminRoutes.GET("/users-without-orders", ac.UsersWithoutOrders)
	adminRoutes.GET("/reports/orders", ac.OrderReport)
	adminRoutes.GET("/reports/orders/export", ac.ExportOrderReport)
	adminRoutes.GET("/reminders", ac.ListReminders)
}

func RegisterUserRoutes(rg *gin.RouterGroup, uc *controllers.UserController) {
	userRoutes := rg.Group("/users")
	userRoutes.Use(middleware.AdminOnly())
	userRoutes.GET("", uc.ListUsers)
	userRoutes.POST("", uc.CreateUser)
	userRoutes.GET("/:id", uc.GetUser)
	userRoutes.PUT("/:id", uc.UpdateUser)
	userRoutes.DELETE("/:id", uc.DeactivateUser)
}

func RegisterMotdRoutes(rg *gin.RouterGroup, mc *controllers.MotdController) {
	rg.GET("/motd", mc.ListOptions)

	adminRoutes := rg.Group("/admin/motd")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.GET("", mc.ListOptions)
	adminRoutes.PUT("", mc.SetOption)
}

// RegisterTaskRoutes exposes the dispatch trigger for an external cron. It sits
// outside user auth and is guarded by the shared task token instead.
func RegisterTaskRoutes(rg *gin.RouterGroup, tc *controllers.TaskController, token string) {
	taskRoutes := rg.Group("/tasks")
	taskRoutes.Use(middleware.TaskToken(token))
	taskRoutes.POST("/run", tc.RunTask)
}
