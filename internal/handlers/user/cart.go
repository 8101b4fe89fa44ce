package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/middleware"
)

// GET /api/cart
func GetCart(c *gin.Context) {
	session := middleware.GetSession(c)

	lines, err := carts.GetCart(c.Request.Context(), session)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": lines})
}

// POST /api/cart
func AddToCart(c *gin.Context) {
	var input struct {
		ItemID string `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId requis"})
		return
	}

	session := middleware.GetSession(c)
	line, err := carts.AddToCart(c.Request.Context(), session, input.ItemID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cartItem": line})
}

// DELETE /api/cart/:id
func RemoveFromCart(c *gin.Context) {
	session := middleware.GetSession(c)

	removed, err := carts.RemoveFromCart(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cartItem": removed, "message": "Article retiré du panier"})
}
