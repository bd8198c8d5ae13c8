package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (a *api) listRestaurants(c *gin.Context) {
	restaurants, err := a.backend.ListRestaurants(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (a *api) listMenu(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}
	dishes, err := a.backend.ListDishes(c.Request.Context(), restaurantID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}
