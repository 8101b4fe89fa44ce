package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ScyllaUserStore persiste les comptes dans le keyspace users, avec les
// tables de lookup users_by_email et users_by_reset_token.
type ScyllaUserStore struct{}

func NewScyllaUserStore() *ScyllaUserStore {
	return &ScyllaUserStore{}
}

func parseUUID(id string) (gocql.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("identifiant invalide: %v", err)
	}
	return gocql.UUID(uid), nil
}

func (s *ScyllaUserStore) Create(ctx context.Context, u *models.User) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	if u.ID == "" {
		u.ID = gocql.TimeUUID().String()
	}
	userUUID, err := parseUUID(u.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	// LWT : l'unicité de l'email se joue ici, pas dans la table principale
	applied, err := session.Query(
		"INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS",
		u.Email, userUUID).WithContext(ctx).MapScanCAS(make(map[string]interface{}))
	if err != nil {
		return err
	}
	if !applied {
		return ErrConflict
	}

	return database.GetPreparedInsertUser().Bind(
		userUUID, u.Email, u.Password, u.Name,
		models.PermissionsToStrings(u.Permissions), now, now,
	).WithContext(ctx).Exec()
}

func (s *ScyllaUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	userUUID, err := parseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		email, password, name string
		permissions           []string
		resetToken            string
		resetTokenExpiry      time.Time
		createdAt, updatedAt  time.Time
	)

	err = database.GetPreparedGetUserByID().Bind(userUUID).WithContext(ctx).Scan(
		&email, &password, &name, &permissions, &resetToken, &resetTokenExpiry, &createdAt, &updatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:          id,
		Email:       email,
		Password:    password,
		Name:        name,
		Permissions: models.PermissionsFromStrings(permissions),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	// Les deux champs reset vont par paire : tous deux posés ou tous deux nuls
	if resetToken != "" && !resetTokenExpiry.IsZero() {
		u.ResetToken = &resetToken
		u.ResetTokenExpiry = &resetTokenExpiry
	}
	return u, nil
}

func (s *ScyllaUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var userUUID gocql.UUID
	err := database.GetPreparedGetUserByEmail().Bind(email).WithContext(ctx).Scan(&userUUID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userUUID.String())
}

func (s *ScyllaUserStore) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var userUUID gocql.UUID
	err := database.GetPreparedGetUserByResetToken().Bind(token).WithContext(ctx).Scan(&userUUID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, userUUID.String())
	if err != nil {
		return nil, err
	}
	// Le lookup peut pointer sur un token déjà remplacé : la ligne fait foi
	if u.ResetToken == nil || *u.ResetToken != token {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *ScyllaUserStore) List(ctx context.Context) ([]models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT user_id, email, name, permissions FROM users").
		WithContext(ctx).Iter()

	var users []models.User
	var (
		userUUID    gocql.UUID
		email, name string
		permissions []string
	)
	for iter.Scan(&userUUID, &email, &name, &permissions) {
		users = append(users, models.User{
			ID:          userUUID.String(),
			Email:       email,
			Name:        name,
			Permissions: models.PermissionsFromStrings(permissions),
		})
		permissions = nil
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *ScyllaUserStore) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	userUUID, err := parseUUID(userID)
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query("UPDATE users SET reset_token = ?, reset_token_expiry = ?, updated_at = ? WHERE user_id = ?",
		token, expiry, time.Now(), userUUID)
	batch.Query("INSERT INTO users_by_reset_token (reset_token, user_id) VALUES (?, ?)",
		token, userUUID)
	return session.ExecuteBatch(batch)
}

func (s *ScyllaUserStore) UpdatePassword(ctx context.Context, userID, digest, resetToken string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	userUUID, err := parseUUID(userID)
	if err != nil {
		return err
	}

	// Nouveau digest et effacement des champs reset dans le même batch
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query("UPDATE users SET password = ?, reset_token = null, reset_token_expiry = null, updated_at = ? WHERE user_id = ?",
		digest, time.Now(), userUUID)
	if resetToken != "" {
		batch.Query("DELETE FROM users_by_reset_token WHERE reset_token = ?", resetToken)
	}
	return session.ExecuteBatch(batch)
}

func (s *ScyllaUserStore) UpdatePermissions(ctx context.Context, userID string, perms []models.Permission) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}
	userUUID, err := parseUUID(userID)
	if err != nil {
		return err
	}

	return session.Query("UPDATE users SET permissions = ?, updated_at = ? WHERE user_id = ?",
		models.PermissionsToStrings(perms), time.Now(), userUUID).WithContext(ctx).Exec()
}
