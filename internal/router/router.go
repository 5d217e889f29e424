package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ksaito/chocolatte-backend/config"
	"github.com/ksaito/chocolatte-backend/internal/app/controller"
	"github.com/ksaito/chocolatte-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	drinkController   *controller.DrinkController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	addressController *controller.AddressController
	reviewController  *controller.ReviewController
	uploadController  *controller.UploadController
	userController    *controller.UserController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	drinkController *controller.DrinkController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	addressController *controller.AddressController,
	reviewController *controller.ReviewController,
	uploadController *controller.UploadController,
	userController *controller.UserController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		drinkController:   drinkController,
		cartController:    cartController,
		orderController:   orderController,
		addressController: addressController,
		reviewController:  reviewController,
		uploadController:  uploadController,
		userController:    userController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Chocolatte API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.GetProductReviews)
			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)
		}

		drinks := v1.Group("/drinks")
		{
			drinks.GET("", r.drinkController.GetDrinks)
			drinks.POST("", r.authMiddleware.Authenticate(), r.drinkController.CreateDrink)
			drinks.GET("/mine", r.authMiddleware.Authenticate(), r.drinkController.GetMyDrinks)
			drinks.DELETE("/mine/:id", r.authMiddleware.Authenticate(), r.drinkController.DeleteMyDrink)
			drinks.GET("/:id", r.drinkController.GetDrink)
		}

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveCartItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		addresses := v1.Group("/addresses", r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.GetAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
		}

		reviews := v1.Group("/reviews", r.authMiddleware.Authenticate())
		{
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		users := v1.Group("/users", r.authMiddleware.Authenticate())
		{
			users.GET("/me/export", r.userController.ExportOrderHistory)
		}

		v1.POST("/chatbot", r.userController.Chatbot)

		upload := v1.Group("/upload",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.POST("/drinks", r.drinkController.CreateAdminDrink)
			admin.PUT("/drinks/:id", r.drinkController.UpdateDrink)
			admin.DELETE("/drinks/:id", r.drinkController.DeleteDrink)

			admin.GET("/orders", r.orderController.GetAllOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
