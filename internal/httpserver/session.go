package httpserver

import (
	"net/http"

	"restofront/internal/domain"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (a *api) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.User.ID == 0 || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user and token required"})
		return
	}

	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.sess.Login(c.Request.Context(), req.User, req.Token)
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"user": req.User})
}

func (a *api) logout(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.checkout = nil
	cl.sess.Logout(c.Request.Context())
	cl.mu.Unlock()

	c.Status(http.StatusNoContent)
}

func (a *api) selectRestaurant(c *gin.Context) {
	var r domain.Restaurant
	if err := c.ShouldBindJSON(&r); err != nil || r.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant id required"})
		return
	}

	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.sess.SelectRestaurant(c.Request.Context(), r)
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"restaurant": r})
}

func (a *api) getSession(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	user := cl.sess.User()
	restaurant := cl.sess.Restaurant()
	authenticated := user != nil && cl.sess.Token() != ""
	cl.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"restaurant":    restaurant,
		"authenticated": authenticated,
		"stale":         cl.consumeStale(),
	})
}
