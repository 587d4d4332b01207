package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// under at least one configured secret but is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid means no configured secret validates the token.
	ErrTokenInvalid = errors.New("invalid token")
)

var (
	secretsMu  sync.RWMutex
	jwtSecrets [][]byte
)

// Claims carried by an access token.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// SetJWTSecrets installs the verification secrets in priority order: the
// current signing secret first, then previously used ones. Tokens are always
// signed with the first entry; verification walks the whole list so a secret
// rotation does not invalidate outstanding tokens.
func SetJWTSecrets(secrets ...string) {
	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			keys = append(keys, []byte(s))
		}
	}
	secretsMu.Lock()
	jwtSecrets = keys
	secretsMu.Unlock()
}

func verificationSecrets() [][]byte {
	secretsMu.RLock()
	defer secretsMu.RUnlock()
	return jwtSecrets
}

// GenerateToken signs an access token for the given identity.
func GenerateToken(userID uint, username, email string, expireHours int) (string, error) {
	secrets := verificationSecrets()
	if len(secrets) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secrets[0])
}

// ParseToken verifies tokenString against each configured secret in order
// and returns the claims from the first secret that validates it. A token
// that is expired under some secret yields ErrTokenExpired; anything else
// that fails yields ErrTokenInvalid.
func ParseToken(tokenString string) (*Claims, error) {
	secrets := verificationSecrets()
	if len(secrets) == 0 {
		return nil, ErrTokenInvalid
	}

	expired := false
	for _, secret := range secrets {
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err == nil && token.Valid {
			return claims, nil
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			expired = true
		}
	}

	if expired {
		return nil, ErrTokenExpired
	}
	return nil, ErrTokenInvalid
}
