package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"

	"restofront/internal/domain"
	"restofront/internal/push"
	"restofront/internal/repository/state"
	checkoutsvc "restofront/internal/service/checkout"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the slice of the gateway client the HTTP surface consumes.
type Backend interface {
	checkoutsvc.Gateway
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error)
	GetInvoice(ctx context.Context, token string, orderID int64) (*domain.Invoice, error)
}

// Deps carries the collaborators the router wires into handlers.
type Deps struct {
	StateRepo state.Repository
	Backend   Backend
	Push      push.Channel
}

type api struct {
	hub     *hub
	backend Backend
	logger  *log.Logger
}

// buildRouter wires routes for the client surface.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Client-Id")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	a := &api{
		hub:     newHub(deps.StateRepo, logger),
		backend: deps.Backend,
		logger:  logger,
	}
	if deps.Push != nil {
		deps.Push.Subscribe(func(push.Event) { a.hub.invalidate() })
	}

	router.GET("/restaurants", a.listRestaurants)
	router.GET("/restaurants/:id/menu", a.listMenu)

	owned := router.Group("/", ownerMiddleware())
	owned.GET("/session", a.getSession)
	owned.POST("/session/login", a.login)
	owned.POST("/session/logout", a.logout)
	owned.POST("/session/restaurant", a.selectRestaurant)

	owned.GET("/cart", a.getCart)
	owned.POST("/cart/items", a.addCartItem)
	owned.PATCH("/cart/items/:id", a.changeCartItem)
	owned.DELETE("/cart/items/:id", a.removeCartItem)
	owned.DELETE("/cart", a.clearCart)

	owned.POST("/checkout", a.beginCheckout)
	owned.GET("/checkout", a.getCheckout)
	owned.DELETE("/checkout", a.cancelCheckout)
	owned.POST("/checkout/info", a.submitInfo)
	owned.POST("/checkout/method", a.choosePayment)
	owned.POST("/checkout/mobile-money", a.submitMobileMoney)
	owned.DELETE("/checkout/mobile-money", a.cancelMobileMoney)
	owned.POST("/checkout/card/confirm", a.confirmCard)
	owned.DELETE("/checkout/card", a.cancelCard)
	owned.POST("/checkout/bank-info", a.submitBankInfo)
	owned.POST("/checkout/bank-info/skip", a.skipBankInfo)
	owned.GET("/checkout/invoice", a.getInvoice)
	owned.POST("/checkout/return", a.returnToMenu)

	return router, nil
}

const ownerHeader = "X-Client-Id"

func ownerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(ownerHeader))
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ownerHeader + " header"})
			return
		}
		c.Set("owner", owner)
		c.Next()
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString("owner")
}
