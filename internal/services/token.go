package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const draftTokenTTL = 24 * time.Hour

// DraftTokens issues and checks the bearer tokens that grant access to one
// draft.
type DraftTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewDraftTokens(secret string) *DraftTokens {
	return &DraftTokens{secret: []byte(secret), ttl: draftTokenTTL}
}

func (t *DraftTokens) Issue(draftID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"draft_id": draftID,
		"exp":      now.Add(t.ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate returns the draft id the token was issued for.
func (t *DraftTokens) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	draftID, ok := claims["draft_id"].(string)
	if !ok || draftID == "" {
		return "", errors.New("invalid draft_id in token")
	}
	return draftID, nil
}
