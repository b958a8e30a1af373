package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/controllers"
	"github.com/Rish3666/uni-laundry-sync-sub000/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Global limiter: 50 requests per second per IP. Must be registered
	// before any route, gin only applies middleware to routes added later.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	catalogCtrl := controllers.NewCatalogController(db)
	orderCtrl := controllers.NewOrderController(db)
	batchCtrl := controllers.NewBatchController(db)
	adminCtrl := controllers.NewAdminController(db)
	relayCtrl := controllers.NewRelayController(db)
	messageCtrl := controllers.NewMessageController(db)
	receiptCtrl := controllers.NewReceiptController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/signup
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/signup", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog browsing needs no session
	r.GET("/categories", catalogCtrl.GetAllCategories)
	r.GET("/items", catalogCtrl.GetAllItems)
	r.GET("/service-types", catalogCtrl.GetServiceTypes)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)

		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetMyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
		auth.POST("/orders/:order_id/relay", relayCtrl.RelayOrder)
		auth.GET("/orders/:order_id/receipt", receiptCtrl.GetOrderReceipt)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminRequired())
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.POST("/scan/:code", orderCtrl.ScanOrder)
		admin.POST("/pickup/redeem", orderCtrl.RedeemPickupToken)

		admin.GET("/batches", batchCtrl.GetBatches)
		admin.POST("/batches/complete", batchCtrl.MarkBatchComplete)
		admin.POST("/batches/unmark", batchCtrl.UnmarkBatch)
		admin.POST("/batches/:batch_number/notify", batchCtrl.NotifyBatch)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

		admin.POST("/messages", messageCtrl.SendCustomerMessage)
		admin.GET("/notifications", messageCtrl.GetAllNotifications)
		admin.DELETE("/notifications/:notif_id", messageCtrl.DeleteNotification)

		admin.POST("/categories", catalogCtrl.CreateCategory)
		admin.POST("/items", catalogCtrl.CreateItem)
		admin.PATCH("/items/:item_id/price", catalogCtrl.UpdateItemPrice)
		admin.DELETE("/items/:item_id", catalogCtrl.DeleteItem)
	}

	// The grant endpoint is passphrase-gated, not role-gated: any
	// authenticated user holding the passphrase may self-promote.
	r.POST("/grant-admin", middlewares.AuthMiddleware(), adminCtrl.GrantAdminAccess)

	// Live dashboard feed
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/live", controllers.LiveHandler)
	}

	return r
}
