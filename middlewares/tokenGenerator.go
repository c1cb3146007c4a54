package middlewares

import (
	"time"

	"infserver/auth"
	"infserver/models"

	"gorm.io/gorm"

	jwt "github.com/dgrijalva/jwt-go"
)

func GenerateToken(db *gorm.DB, subscriptionStatus string, existingUserID uint) (string, uint, error) {
	var userID uint
	var err error

	if existingUserID > 0 {
		// 既存のユーザーIDを再利用
		userID = existingUserID
	} else {
		// 新しいユーザーIDを生成
		userID, err = GenerateUserID(db, subscriptionStatus)
		if err != nil {
			return "", 0, err
		}
	}

	// トークンの有効期限は課金状態にかかわらず72時間
	expirationTime := time.Now().Add(72 * time.Hour)

	// JWTトークン生成時に内包するデータ
	claims := &models.MyClaims{
		UserID:             userID,
		SubscriptionStatus: subscriptionStatus,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JwtKey)

	return tokenString, userID, err
}

// GORMによるオートインクリメントユーザーIDを生成する関数
func GenerateUserID(db *gorm.DB, subscriptionStatus string) (uint, error) {
	// データベースに新しいUserインスタンスを作成
	user := models.User{
		SubscriptionStatus: subscriptionStatus, // 課金ステータスを設定
	}
	if err := db.Create(&user).Error; err != nil {
		return 0, err // エラー発生時
	}
	return user.ID, nil // UserインスタンスのIDを返す
}
