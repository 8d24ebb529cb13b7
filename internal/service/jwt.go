package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a short-lived guest token binding the player name
// chosen at the auth endpoint to the websocket connection that presents
// it.
func GenerateJWT(playerName string) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"name": playerName,
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
		"iat":  now,
		"nbf":  now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a guest token and returns the player name.
func ParseJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return "", errors.New("token expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return "", errors.New("token not valid yet")
	}

	name, ok := claims["name"].(string)
	if !ok || name == "" {
		return "", errors.New("name not found")
	}
	return name, nil
}
