package domain

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// AuthToken is the OAuth credential handed to the catalog collaborator.
type AuthToken struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int       `json:"expiresIn"`
	ExpireDate   time.Time `json:"expireDate"`
}

// Expired reports whether the token needs a refresh at the given instant.
func (t *AuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpireDate)
}

// Claims are the two identifiers this service needs from a bearer token:
// the merchant (sub) and the authorized app (aud) that keys the token store.
type Claims struct {
	MerchantID      string
	AuthorizedAppID string
}

type bearerClaims struct {
	Sub string `json:"sub"`
	Aud string `json:"aud"`
}

// ParseBearer extracts the claims from the Authorization header. Signature
// verification happens upstream; this only decodes the claims segment and
// rejects anything that does not look like a three-part token carrying both
// identifiers.
func ParseBearer(header string) (*Claims, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		token, ok = strings.CutPrefix(header, "JWT ")
	}
	if !ok || token == "" {
		return nil, ErrUnauthenticated
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, ErrUnauthenticated
	}

	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, ErrUnauthenticated
	}

	var claims bearerClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrUnauthenticated
	}

	if claims.Sub == "" || claims.Aud == "" {
		return nil, ErrUnauthenticated
	}

	return &Claims{MerchantID: claims.Sub, AuthorizedAppID: claims.Aud}, nil
}
