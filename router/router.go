package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sairamconnect/campus-services/bot"
	"github.com/sairamconnect/campus-services/controllers"
	"github.com/sairamconnect/campus-services/middlewares"
	"github.com/sairamconnect/campus-services/models"
	"github.com/sairamconnect/campus-services/services"
)

func SetupRouter(db *gorm.DB, uploadDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	orderSvc := services.NewOrderService(db)
	notifSvc := services.NewNotificationService(db)

	userCtrl := controllers.NewUserController(db)
	canteenCtrl := controllers.NewCanteenController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(orderSvc)
	printCtrl := controllers.NewPrintController(db, orderSvc, uploadDir)
	vendorCtrl := controllers.NewVendorController(orderSvc)
	notifCtrl := controllers.NewNotificationController(notifSvc)
	paymentCtrl := controllers.NewPaymentController(orderSvc)
	adminCtrl := controllers.NewAdminController(db)
	botHandler := bot.NewHandler(db, orderSvc)

	// ---------------- PUBLIC ----------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.POST("/telegram/webhook", botHandler.Webhook)

	// ---------------- AUTHENTICATED ----------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/notifications", notifCtrl.List)
	auth.GET("/pay/upi/:kind/:id", paymentCtrl.UPIIntent)

	// Student side
	auth.GET("/canteens", canteenCtrl.GetAllCanteens)
	auth.GET("/canteens/:canteen_id/menu", canteenCtrl.GetCanteenMenu)
	auth.POST("/orders/checkout", orderCtrl.Checkout)
	auth.GET("/orders", orderCtrl.ListMyOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrder)
	auth.GET("/print/vendors", printCtrl.ListPrintVendors)
	auth.POST("/print/upload", printCtrl.Upload)
	auth.GET("/print/jobs", printCtrl.ListMyJobs)
	auth.GET("/print/jobs/:job_id", printCtrl.GetJob)

	// Vendor side
	vendor := auth.Group("/vendor")
	vendor.Use(middlewares.RequireRole(models.RoleVendor))
	{
		vendor.GET("/queue", vendorCtrl.Queue)
		vendor.POST("/orders/:kind/:id/:action", vendorCtrl.Action)
		vendor.GET("/menu", menuCtrl.GetVendorMenu)
		vendor.POST("/menu", menuCtrl.AddMenuItem)
		vendor.PATCH("/menu/:item_id/availability", menuCtrl.SetItemAvailability)
	}

	// Admin side
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/users", adminCtrl.CreateUser)
		admin.GET("/users", adminCtrl.GetAllUsers)
		admin.GET("/stats", adminCtrl.GetStats)
	}

	return r
}
