package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"velora_back_end/internal/account"
	"velora_back_end/internal/cache"
	"velora_back_end/internal/cart"
	"velora_back_end/internal/checkout"
	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/handlers/item"
	pa "velora_back_end/internal/handlers/payement"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/models"
	"velora_back_end/internal/payment"
	"velora_back_end/internal/routes"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()

	// ✅ Initialiser les prepared statements pour améliorer les performances
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	users := store.NewScyllaUserStore()
	items := store.NewScyllaItemStore()
	carts := store.NewScyllaCartStore()
	orders := store.NewScyllaOrderStore()

	userCache := cache.NewUserCache(users)

	accounts := account.NewService(users, account.MailerFunc(utils.SendEmail), userCache)
	cartService := cart.NewService(carts, items)
	checkoutService := checkout.NewService(carts, items, orders,
		payment.NewStripeGateway(), cache.NewCheckoutLocker())
	checkoutService.OnOrderCreated = sendOrderConfirmation

	user.Setup(accounts, cartService, orders)
	item.Setup(items)
	pa.Setup(checkoutService)

	r := gin.Default()
	routes.RegisterRoutes(r, userCache)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Velora lancé sur le port", port)
	r.Run(":" + port)
}

// sendOrderConfirmation part en goroutine : l'échec d'un e-mail ne doit
// jamais faire échouer un checkout dont le paiement est déjà capturé.
func sendOrderConfirmation(order models.Order, email string) {
	go func() {
		subject := "Confirmation de votre commande Velora"
		if err := utils.SendEmail(email, subject, utils.OrderConfirmationHTML(order)); err != nil {
			log.Printf("❌ Erreur envoi email de confirmation pour la commande %s: %v", order.ID, err)
			return
		}
		log.Printf("📤 Email de confirmation envoyé pour la commande %s", order.ID)
	}()
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
