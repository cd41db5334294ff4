package authz

// Ownable is any resource with an owning user.
type Ownable interface {
	OwnerID() int64
}

// OwnerOrAdmin permits the resource owner and any admin. Used for review
// read and delete.
func OwnerOrAdmin(p Principal, res Ownable) Decision {
	if p.IsAdmin() || p.ID == res.OwnerID() {
		return Allow()
	}
	return Deny("principal is neither owner nor admin")
}

// OwnerOnly permits only the resource owner. Admins are explicitly excluded;
// review update keeps this asymmetry on purpose.
func OwnerOnly(p Principal, res Ownable) Decision {
	if p.ID == res.OwnerID() {
		return Allow()
	}
	return Deny("principal is not the owner")
}

// HasRole permits principals whose role is in the allowed set.
func HasRole(p Principal, allowed ...string) Decision {
	for _, role := range allowed {
		if p.Role == role {
			return Allow()
		}
	}
	return Deny("role not permitted for operation")
}
