package pa

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/checkout"
	"velora_back_end/internal/middleware"
)

var checkouts *checkout.Service

func Setup(s *checkout.Service) {
	checkouts = s
}

// POST /api/checkout
// Capture le paiement puis matérialise la commande depuis le snapshot du panier.
func Checkout(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token de paiement requis"})
		return
	}

	session := middleware.GetSession(c)
	order, err := checkouts.Checkout(c.Request.Context(), session, input.Token)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}
