package jwttoken

import (
	"teamsort/internal/platform/middleware"
)

// MiddlewareValidator adapts JWTService to the operator guard's validator.
type MiddlewareValidator struct {
	service *JWTService
}

func NewMiddlewareValidator(service *JWTService) *MiddlewareValidator {
	return &MiddlewareValidator{service: service}
}

func (a *MiddlewareValidator) ValidateToken(tokenString string) (*middleware.OperatorClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.OperatorClaims{
		Operator: claims.Subject,
		TokenID:  claims.ID,
	}, nil
}
