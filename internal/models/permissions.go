package models

// Permission est un jeton de rôle issu d'une énumération fermée.
// Seules les permissions listées comptent : pas de passe-droit ADMIN implicite.
type Permission string

const (
	PermUser             Permission = "USER"
	PermAdmin            Permission = "ADMIN"
	PermItemDelete       Permission = "ITEMDELETE"
	PermPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions est l'ensemble des valeurs acceptées par la mise à jour des permissions.
var AllPermissions = []Permission{
	PermUser,
	PermAdmin,
	PermItemDelete,
	PermPermissionUpdate,
}

// DefaultPermissions est attribué à chaque nouveau compte à l'inscription.
var DefaultPermissions = []Permission{PermUser}

// IsValid vérifie qu'une valeur appartient à l'énumération.
func (p Permission) IsValid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionsFromStrings convertit une liste brute (set<text> ScyllaDB, JSON)
// en permissions typées. Les valeurs inconnues sont ignorées.
func PermissionsFromStrings(raw []string) []Permission {
	perms := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p := Permission(r)
		if p.IsValid() {
			perms = append(perms, p)
		}
	}
	return perms
}

// PermissionsToStrings convertit pour le stockage.
func PermissionsToStrings(perms []Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}
