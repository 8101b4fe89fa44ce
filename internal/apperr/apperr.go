// Package apperr définit les familles d'erreurs métier exposées par l'API.
// Chaque erreur porte un message sûr pour l'appelant : aucun détail interne
// (stack, requête CQL, erreur Stripe brute) ne traverse la frontière HTTP.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Invalid
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	InvalidCredential
	Mismatch
	InvalidOrExpiredToken
	InvalidOperation
	GatewayFailure
	// PartialCommit : la passerelle a capturé les fonds mais l'écriture locale
	// a échoué. Non réessayable, réconciliation manuelle via l'id de charge.
	PartialCommit
)

type Error struct {
	Kind    Kind
	Message string
	// Err est la cause interne, loggée côté serveur, jamais sérialisée.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf retourne la famille d'une erreur, Internal si elle n'est pas typée.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// HTTPStatus mappe une famille d'erreur vers un code HTTP.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Invalid, Mismatch, InvalidOperation:
		return http.StatusBadRequest
	case Unauthenticated, InvalidCredential, InvalidOrExpiredToken:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case GatewayFailure:
		return http.StatusBadGateway
	case PartialCommit:
		// L'opération a échoué localement alors que l'argent a bougé :
		// on signale une erreur serveur distincte, jamais un succès.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
