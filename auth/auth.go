package auth

import (
	"os"

	"infserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// JwtKey はトークンの署名・検証に使う共通鍵です。
var JwtKey = []byte(loadJwtKey())

func loadJwtKey() string {
	if key := os.Getenv("JWT_SECRET_KEY"); key != "" {
		return key
	}
	// ローカル開発用。本番では必ずJWT_SECRET_KEYを設定すること。
	return "dev-only-secret"
}

func IsValidToken(tokenString string) (bool, error) {
	claims := &models.MyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})

	if err != nil {
		return false, err
	}

	return token.Valid, nil
}
