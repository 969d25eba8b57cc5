package routes

import (
	"net/http"

	"voyagr/auth"
	"voyagr/live"
	"voyagr/middleware"
	"voyagr/pay"
	"voyagr/places"
	"voyagr/plans"
	"voyagr/profile"
	"voyagr/ratelim"
	"voyagr/reviews"
	"voyagr/trips"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
	router.ServeFiles("/static/placepic/*filepath", http.Dir("static/placepic"))
	router.ServeFiles("/static/reviewpic/*filepath", http.Dir("static/reviewpic"))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", h.Logout)
	router.POST("/api/auth/refresh", h.RefreshToken)
	router.POST("/api/auth/verify-otp", rl.Limit(h.VerifyOTP))
	router.POST("/api/auth/reset", rl.Limit(h.RequestPasswordReset))
	router.POST("/api/auth/reset/confirm", rl.Limit(h.ConfirmPasswordReset))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/profile", middleware.Authenticate(h.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(h.UpdateProfile))
	router.POST("/api/profile/avatar", middleware.Authenticate(h.UploadAvatar))
}

func AddPlanRoutes(router *httprouter.Router, h *plans.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/plans", h.GetPlans)
	router.GET("/api/plans/:planId", h.GetPlan)
	router.POST("/api/plans", rl.Limit(middleware.Authenticate(h.CreatePlan)))
	router.PUT("/api/plans/:planId", rl.Limit(middleware.Authenticate(h.UpdatePlan)))
	router.DELETE("/api/plans/:planId", rl.Limit(middleware.Authenticate(h.DeletePlan)))
}

func AddPlaceRoutes(router *httprouter.Router, h *places.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/places", h.GetPlaces)
	router.GET("/api/places/:placeId", h.GetPlace)
	router.POST("/api/places", rl.Limit(middleware.Authenticate(h.CreatePlace)))
	router.PUT("/api/places/:placeId", rl.Limit(middleware.Authenticate(h.UpdatePlace)))
	router.DELETE("/api/places/:placeId", rl.Limit(middleware.Authenticate(h.DeletePlace)))
	router.POST("/api/places/:placeId/banner", rl.Limit(middleware.Authenticate(h.UploadBanner)))
}

func AddTripRoutes(router *httprouter.Router, h *trips.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/trips", rl.Limit(middleware.Authenticate(h.AddTrip)))
	router.POST("/api/trips/:planId/book", rl.Limit(middleware.Authenticate(h.BookTrip)))
	router.POST("/api/trips/:planId/complete", rl.Limit(middleware.Authenticate(h.CompleteTrip)))
	router.DELETE("/api/trips/:planId", rl.Limit(middleware.Authenticate(h.RemoveTrip)))
	router.GET("/api/users/:uid/trips", middleware.Authenticate(h.GetTripsForUser))
}

func AddReviewsRoutes(router *httprouter.Router, h *reviews.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/reviews/:planId", h.GetReviews)
	router.GET("/api/reviews/:planId/:reviewId", h.GetReview)
	router.POST("/api/reviews/:planId", rl.Limit(middleware.Authenticate(h.AddReview)))
	router.PUT("/api/reviews/:planId/:reviewId", rl.Limit(middleware.Authenticate(h.EditReview)))
	router.DELETE("/api/reviews/:planId/:reviewId", rl.Limit(middleware.Authenticate(h.DeleteReview)))
	router.POST("/api/reviews/:planId/:reviewId/like", rl.Limit(middleware.Authenticate(h.LikeReview)))
	router.POST("/api/reviews/:planId/:reviewId/unlike", rl.Limit(middleware.Authenticate(h.UnlikeReview)))
	router.POST("/api/reviews/:planId/:reviewId/image", rl.Limit(middleware.Authenticate(h.UploadReviewImage)))
}

func AddPaymentRoutes(router *httprouter.Router, h *pay.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/payments", rl.Limit(middleware.Authenticate(h.CreateOrder)))
	router.GET("/api/payments/:orderId/status", middleware.Authenticate(h.GetOrderStatus))
	router.GET("/api/payments/:orderId/receipt", middleware.Authenticate(h.DownloadReceipt))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/trips", live.TripStatusSocket(hub))
}
