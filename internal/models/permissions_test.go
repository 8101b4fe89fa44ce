package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionIsValid(t *testing.T) {
	assert.True(t, PermAdmin.IsValid())
	assert.True(t, Permission("USER").IsValid())
	assert.False(t, Permission("admin").IsValid()) // sensible à la casse
	assert.False(t, Permission("SUPERPOUVOIR").IsValid())
}

func TestPermissionsFromStringsDropsUnknown(t *testing.T) {
	perms := PermissionsFromStrings([]string{"USER", "inconnu", "ADMIN"})
	assert.Equal(t, []Permission{PermUser, PermAdmin}, perms)
}

func TestUserHasAny(t *testing.T) {
	u := User{Permissions: []Permission{PermUser, PermItemDelete}}
	assert.True(t, u.HasAny(PermAdmin, PermItemDelete))
	assert.False(t, u.HasAny(PermAdmin, PermPermissionUpdate))
	assert.False(t, u.HasAny())
}
