// Package user porte les handlers HTTP des comptes, du panier et des
// commandes de l'utilisateur connecté.
package user

import (
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/account"
	"velora_back_end/internal/apperr"
	"velora_back_end/internal/cart"
	"velora_back_end/internal/store"
)

var (
	accounts *account.Service
	carts    *cart.Service
	orders   store.OrderStore
)

// Setup injecte les services au démarrage.
func Setup(a *account.Service, c *cart.Service, o store.OrderStore) {
	accounts = a
	carts = c
	orders = o
}

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
