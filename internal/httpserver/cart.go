package httpserver

import (
	"net/http"
	"strconv"

	"restofront/internal/domain"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	domain.Dish
	Replace bool `json:"replace"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (a *api) getCart(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	lines := cl.cart.Lines()
	total := cl.cart.Total()
	restaurantID := cl.cart.RestaurantID()
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"lines":        lines,
		"total":        total,
		"restaurantId": restaurantID,
		"stale":        cl.consumeStale(),
	})
}

func (a *api) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	err := cl.cart.AddItem(c.Request.Context(), req.Dish, req.Replace)
	if err == nil {
		// The cart and the active restaurant change together: an add
		// that lands in a different restaurant's cart (a confirmed
		// replace, or a first add) carries the restaurant context along.
		if r := cl.sess.Restaurant(); r == nil || r.ID != req.Dish.RestaurantID {
			cl.sess.SetRestaurant(c.Request.Context(), domain.Restaurant{ID: req.Dish.RestaurantID})
		}
	}
	lines := cl.cart.Lines()
	total := cl.cart.Total()
	cl.mu.Unlock()

	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines, "total": total})
}

func (a *api) changeCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.cart.ChangeQuantity(c.Request.Context(), itemID, req.Delta)
	lines := cl.cart.Lines()
	total := cl.cart.Total()
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"lines": lines, "total": total})
}

func (a *api) removeCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.cart.RemoveItem(c.Request.Context(), itemID)
	lines := cl.cart.Lines()
	total := cl.cart.Total()
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"lines": lines, "total": total})
}

func (a *api) clearCart(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.cart.Clear(c.Request.Context())
	cl.mu.Unlock()

	c.Status(http.StatusNoContent)
}
