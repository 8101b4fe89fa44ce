package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes chaudes (auth à chaque requête)
	stmtGetUserByEmail      *gocql.Query
	stmtGetUserByID         *gocql.Query
	stmtInsertUser          *gocql.Query
	stmtGetUserByResetToken *gocql.Query
	stmtGetCartByUser       *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		stmtGetUserByEmail = session.Query("SELECT user_id FROM users_by_email WHERE email = ?")

		stmtGetUserByID = session.Query(`SELECT email, password, name, permissions, reset_token, reset_token_expiry, created_at, updated_at
			FROM users WHERE user_id = ?`)

		stmtInsertUser = session.Query(`INSERT INTO users (user_id, email, password, name, permissions, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)

		stmtGetUserByResetToken = session.Query("SELECT user_id FROM users_by_reset_token WHERE reset_token = ?")

		stmtGetCartByUser = session.Query("SELECT item_id, cart_item_id, quantity FROM cart_items_by_user WHERE user_id = ?")

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByEmail() *gocql.Query {
	return stmtGetUserByEmail
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

func GetPreparedGetUserByResetToken() *gocql.Query {
	return stmtGetUserByResetToken
}

func GetPreparedGetCartByUser() *gocql.Query {
	return stmtGetCartByUser
}
