// Package auth issues and validates the panel access tokens and maps their
// claims onto the request identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/requestcontext"
)

// Claims represents the JWT claims of a panel access token.
type Claims struct {
	UserID      string   `json:"user_id"`
	Login       string   `json:"login"`
	SellerID    string   `json:"seller_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewTokenService(signingKey, issuer, audience string) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// GenerateAccessToken signs a token for user valid for expiresIn.
func (s *TokenService) GenerateAccessToken(user requestcontext.User, expiresIn time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:      user.ID,
		Login:       user.Login,
		SellerID:    user.SellerID,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ParseToken verifies the signature, expiry, issuer and audience.
func (s *TokenService) ParseToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	return claims, nil
}

// ValidateToken satisfies the auth middleware by returning the identity
// carried in the token.
func (s *TokenService) ValidateToken(tokenString string) (requestcontext.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return requestcontext.User{}, err
	}
	return requestcontext.User{
		ID:          claims.UserID,
		Login:       claims.Login,
		SellerID:    claims.SellerID,
		Permissions: claims.Permissions,
	}, nil
}
