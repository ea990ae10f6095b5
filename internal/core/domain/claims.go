package domain

// Claims is the verified identity extracted from a bearer token. The role is
// validated where the token is decoded, so downstream code can trust it to be
// one of the three known roles.
type Claims struct {
	SubjectID  string
	Role       string
	Department string
	Name       string
	Email      string
	// TokenID is the token's jti, used for revocation on logout.
	TokenID string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// IsManager reports whether the caller holds the manager role.
func (c Claims) IsManager() bool { return c.Role == RoleManager }
