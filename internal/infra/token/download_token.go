package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "ligue-leads"

// DownloadTokenService signs and verifies the time-limited links embedded
// in library confirmation emails. Tokens are HS256, expire after 24 hours
// and are bound to one lead and one asset.
type DownloadTokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewDownloadTokenService(secret string) *DownloadTokenService {
	return &DownloadTokenService{
		secret: []byte(secret),
		ttl:    24 * time.Hour,
	}
}

type DownloadClaims struct {
	LeadID    string `json:"lead_id"`
	AssetSlug string `json:"asset_slug"`
	jwt.RegisteredClaims
}

func (s *DownloadTokenService) Generate(leadID, assetSlug string) (string, error) {
	now := time.Now()
	claims := DownloadClaims{
		LeadID:    leadID,
		AssetSlug: assetSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, issuer and expiry before releasing the claims.
func (s *DownloadTokenService) Verify(tokenString string) (*DownloadClaims, error) {
	claims := &DownloadClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid download token")
	}

	return claims, nil
}
