package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid game token")

// GameClaims binds a token to one game and the colour its holder plays.
type GameClaims struct {
	GameID string `json:"game_id"`
	Colour string `json:"colour"`
	jwt.RegisteredClaims
}

// GenerateGameToken creates a signed token authorizing moves for the given
// colour in the given game.
func GenerateGameToken(secret, gameID, colour string, ttl time.Duration) (string, error) {
	claims := &GameClaims{
		GameID: gameID,
		Colour: colour,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateGameToken verifies the signature and expiry and returns the claims.
func ValidateGameToken(secret, tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*GameClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
