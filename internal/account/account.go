// Package account couvre le cycle de vie des identifiants : inscription,
// connexion, réinitialisation de mot de passe, mise à jour des permissions.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// ResetTokenValidity : fenêtre de validité d'un token de réinitialisation.
const ResetTokenValidity = time.Hour

// Mailer envoie les e-mails transactionnels. Fire-and-forget côté service.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// MailerFunc adapte une fonction en Mailer.
type MailerFunc func(to, subject, htmlBody string) error

func (f MailerFunc) Send(to, subject, htmlBody string) error {
	return f(to, subject, htmlBody)
}

// Invalidator purge le cache d'un utilisateur après mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	users      store.UserStore
	mailer     Mailer
	invalidate Invalidator

	// now est remplaçable en test pour jouer sur la fenêtre d'expiration.
	now func() time.Time
}

func NewService(users store.UserStore, mailer Mailer, invalidate Invalidator) *Service {
	return &Service{users: users, mailer: mailer, invalidate: invalidate, now: time.Now}
}

// Signup crée un compte avec les permissions par défaut ({USER} uniquement)
// et retourne l'utilisateur avec un token de session frais.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.Invalid, "Email et mot de passe sont obligatoires")
	}
	if len(password) < 8 {
		return nil, "", apperr.New(apperr.Invalid, "Le mot de passe doit contenir au moins 8 caractères")
	}

	digest, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:        name,
		Email:       email,
		Password:    digest,
		Permissions: models.DefaultPermissions,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, "", apperr.New(apperr.Conflict, "Un compte avec cet email existe déjà")
		}
		return nil, "", err
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		return nil, "", err
	}
	log.Printf("🆕 Compte créé : %s", email)
	return user, token, nil
}

// Signin vérifie les identifiants et retourne un token de session.
// Ne distingue pas « compte inconnu » et « mauvais mot de passe » au-delà
// du texte du message : les deux sont des erreurs d'entrée de l'appelant.
func (s *Service) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.New(apperr.NotFound, "Aucun compte pour l'email "+email)
	}
	if err != nil {
		return nil, "", err
	}

	valid, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !valid {
		return nil, "", apperr.New(apperr.InvalidCredential, "Mot de passe incorrect")
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func generateResetToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// RequestReset pose un token de réinitialisation (valide une heure) et
// déclenche l'envoi de l'e-mail. Retourne toujours nil pour un email
// inconnu : l'existence d'un compte ne fuit jamais par ce canal, et un
// échec d'envoi est loggé, pas exposé.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("⚠️ Demande de reset pour email inconnu (réponse générique)")
		return nil
	}
	if err != nil {
		return err
	}

	token := generateResetToken()
	expiry := s.now().Add(ResetTokenValidity)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	go func() {
		if err := s.mailer.Send(user.Email, "Réinitialisation de votre mot de passe Velora",
			utils.PasswordResetHTML(user.Name, token)); err != nil {
			log.Printf("❌ Erreur envoi email reset à %s: %v", user.Email, err)
		} else {
			log.Printf("✅ Email de réinitialisation envoyé à %s", user.Email)
		}
	}()

	return nil
}

// ResetPassword consomme un token de réinitialisation : nouveau digest et
// effacement des deux champs reset dans la même écriture, puis nouveau
// token de session.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*models.User, string, error) {
	if password != confirmPassword {
		return nil, "", apperr.New(apperr.Mismatch, "Les deux mots de passe ne correspondent pas")
	}
	if len(password) < 8 {
		return nil, "", apperr.New(apperr.Invalid, "Le mot de passe doit contenir au moins 8 caractères")
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.New(apperr.InvalidOrExpiredToken, "Token invalide ou expiré")
	}
	if err != nil {
		return nil, "", err
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return nil, "", apperr.New(apperr.InvalidOrExpiredToken, "Token invalide ou expiré")
	}

	digest, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, digest, token); err != nil {
		return nil, "", err
	}
	user.Password = digest
	user.ResetToken = nil
	user.ResetTokenExpiry = nil

	sessionToken, err := utils.GenerateJWT(*user)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

// ChangePassword rotation du mot de passe d'un compte connecté, après
// vérification de l'ancien.
func (s *Service) ChangePassword(ctx context.Context, session auth.Session, oldPassword, newPassword string) error {
	if err := auth.RequireAuthenticated(session); err != nil {
		return err
	}
	if len(newPassword) < 8 {
		return apperr.New(apperr.Invalid, "Le nouveau mot de passe doit contenir au moins 8 caractères")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "Utilisateur introuvable")
	}
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(oldPassword, user.Password)
	if err != nil || !valid {
		return apperr.New(apperr.InvalidCredential, "Ancien mot de passe incorrect")
	}

	digest, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, digest, "")
}

// UpdatePermissions remplace l'ensemble complet des permissions de la cible.
// Requiert ADMIN ou PERMISSIONUPDATE ; remplacement, jamais fusion.
func (s *Service) UpdatePermissions(ctx context.Context, session auth.Session, targetUserID string, raw []string) (*models.User, error) {
	if err := auth.RequireAny(session, models.PermAdmin, models.PermPermissionUpdate); err != nil {
		return nil, err
	}

	perms := make([]models.Permission, 0, len(raw))
	for _, r := range raw {
		p := models.Permission(r)
		if !p.IsValid() {
			return nil, apperr.New(apperr.Invalid, "Permission inconnue : "+r)
		}
		perms = append(perms, p)
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Utilisateur cible introuvable")
	}
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdatePermissions(ctx, target.ID, perms); err != nil {
		return nil, err
	}
	if s.invalidate != nil {
		s.invalidate.Invalidate(ctx, target.ID)
	}

	target.Permissions = perms
	log.Printf("🔐 Permissions de %s remplacées par %v (par %s)", target.Email, raw, session.UserID)
	return target, nil
}

// ListUsers retourne tous les comptes ; réservé à ADMIN/PERMISSIONUPDATE.
func (s *Service) ListUsers(ctx context.Context, session auth.Session) ([]models.User, error) {
	if err := auth.RequireAny(session, models.PermAdmin, models.PermPermissionUpdate); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}
