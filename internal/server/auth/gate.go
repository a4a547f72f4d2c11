package auth

import "github.com/dmitrijs2005/jobhub/internal/common"

// UserContext is the per-request identity resolved from a session token.
type UserContext struct {
	UserID       string
	FullName     string
	Email        string
	MobileNumber string
	Role         string
}

// Gate decides per-request identity and role-based permission.
type Gate struct {
	secret []byte
}

func NewGate(secretKey string) *Gate {
	return &Gate{secret: []byte(secretKey)}
}

// Identify resolves a session token into a UserContext. A missing, invalid
// or expired token yields nil (anonymous); Identify never fails a request.
func (g *Gate) Identify(token string) *UserContext {
	if token == "" {
		return nil
	}
	claims, err := ParseToken(token, g.secret)
	if err != nil {
		return nil
	}
	return &UserContext{
		UserID:       claims.UserID,
		FullName:     claims.FullName,
		Email:        claims.Email,
		MobileNumber: claims.MobileNumber,
		Role:         claims.Role,
	}
}

// Authorize checks that uc is authenticated and, if requiredRole is not
// empty, that it carries that role. Anonymous callers get
// common.ErrorUnauthorized, authenticated callers with the wrong role get
// common.ErrorForbidden, so the caller can render the two cases differently.
func (g *Gate) Authorize(uc *UserContext, requiredRole string) error {
	if uc == nil {
		return common.ErrorUnauthorized
	}
	if requiredRole != "" && uc.Role != requiredRole {
		return common.ErrorForbidden
	}
	return nil
}
