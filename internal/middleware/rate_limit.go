package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/database"
)

const (
	// Limites par endpoint
	LoginMaxAttempts        = 5
	SignupMaxAttempts       = 3
	RequestResetMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown        = 15 * time.Minute
	SignupCooldown       = 30 * time.Minute
	RequestResetCooldown = 10 * time.Minute
)

// readEmail lit l'email du body sans le consommer pour les handlers suivants.
func readEmail(c *gin.Context) string {
	bodyBytes, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var input struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(bodyBytes, &input); err != nil {
		return ""
	}
	return input.Email
}

func inCooldown(ctx context.Context, c *gin.Context, cooldownKey, message string) bool {
	if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
		ttl := database.Redis.TTL(ctx, cooldownKey).Val()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       fmt.Sprintf("%s. Réessayez dans %d minutes", message, int(ttl.Minutes())),
			"retry_after": int(ttl.Seconds()),
		})
		c.Abort()
		return true
	}
	return false
}

// SigninRateLimit limite les tentatives de connexion par email.
func SigninRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := readEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "signin_attempts:" + email
		cooldownKey := "signin_cooldown:" + email

		if inCooldown(ctx, c, cooldownKey, "Trop de tentatives échouées") {
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(LoginCooldown.Minutes())),
				"retry_after": int(LoginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		// Échec : incrémenter ; succès : réinitialiser
		if c.Writer.Status() == http.StatusUnauthorized || c.Writer.Status() == http.StatusNotFound {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, LoginCooldown)
		} else if c.Writer.Status() == http.StatusOK {
			database.Redis.Del(ctx, key)
			database.Redis.Del(ctx, cooldownKey)
		}
	}
}

// SignupRateLimit limite les inscriptions par IP.
func SignupRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		ip := c.ClientIP()
		key := "signup_attempts:" + ip
		cooldownKey := "signup_cooldown:" + ip

		if inCooldown(ctx, c, cooldownKey, "Trop d'inscriptions") {
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= SignupMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", SignupCooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(SignupCooldown.Minutes())),
				"retry_after": int(SignupCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, SignupCooldown)
		}
	}
}

// RequestResetRateLimit limite les demandes de réinitialisation par email.
func RequestResetRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := readEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "reset_attempts:" + email
		cooldownKey := "reset_cooldown:" + email

		if inCooldown(ctx, c, cooldownKey, "Trop de demandes") {
			return
		}

		attempts, _ := database.Redis.Get(ctx, key).Int()
		if attempts >= RequestResetMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", RequestResetCooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de demandes. Réessayez dans %d minutes", int(RequestResetCooldown.Minutes())),
				"retry_after": int(RequestResetCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			database.Redis.Incr(ctx, key)
			database.Redis.Expire(ctx, key, RequestResetCooldown)
		}
	}
}
