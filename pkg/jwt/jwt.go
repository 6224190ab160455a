package jwt

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrTokenExpired is returned when a token's expiration time has passed
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned when a token fails signature or claim validation
	ErrTokenInvalid = errors.New("invalid token")
)

// GenerateToken creates a signed token embedding the user id, role and an
// expiration time. The signing secret comes from the JWT_SECRET environment
// variable.
func GenerateToken(userID string, role string, expiryMinutes int) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Duration(expiryMinutes) * time.Minute).Unix()

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken verifies the token signature and expiry and returns the
// embedded user id. Expired tokens are reported as ErrTokenExpired, any
// other failure as ErrTokenInvalid.
func ValidateToken(tokenString string) (string, error) {
	token, err := parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userID, ok := claims["user_id"].(string); ok {
			return userID, nil
		}
	}

	return "", ErrTokenInvalid
}

// GetUserRole extracts the user's role from the token
func GetUserRole(tokenString string) (string, error) {
	token, err := parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if role, ok := claims["role"].(string); ok {
			return role, nil
		}
	}

	return "", ErrTokenInvalid
}

func parse(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return token, nil
}
