package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// actorClaims identify a browser. They carry no identity or role; those
// live in the session store.
type actorClaims struct {
	ActorID string `json:"actor_id"`
	jwt.RegisteredClaims
}

// ActorTokenServiceImpl implements domain.ActorTokenService with HS256 JWTs
type ActorTokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewActorTokenService creates a new actor token service
func NewActorTokenService(secretKey, issuer string, ttl time.Duration) *ActorTokenServiceImpl {
	return &ActorTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue implements domain.ActorTokenService
func (s *ActorTokenServiceImpl) Issue(actorID string) (string, error) {
	if actorID == "" {
		return "", errors.New("actor id is required")
	}
	now := s.now()
	claims := actorClaims{
		ActorID: actorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Parse implements domain.ActorTokenService
func (s *ActorTokenServiceImpl) Parse(tokenString string) (string, error) {
	var claims actorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", domain.ErrActorTokenInvalid, err)
	}
	if claims.ActorID == "" {
		return "", domain.ErrActorTokenInvalid
	}
	return claims.ActorID, nil
}

var _ domain.ActorTokenService = (*ActorTokenServiceImpl)(nil)
