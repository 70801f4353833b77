package jwtToken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const purposePasswordReset = "password_reset"

// NewResetToken issues a signed password reset token for the account.
func NewResetToken(
	accountID string,
	email string,
	tokenTTL time.Duration,
	secret []byte,
	now time.Time,
) (
	string,
	error,
) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = accountID
	claims["email"] = email
	claims["purpose"] = purposePasswordReset
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tokenTTL).Unix()

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
