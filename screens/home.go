package screens

import (
	"net/http"
	"strings"
	"time"

	"infserver/auth"
	"infserver/middlewares"
	"infserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HomeHandler はホーム画面の情報を提供するハンドラです。
// トークンの有無だけを見たい初回アクセスでも呼べるよう、ここでは新規発行はしません。
func HomeHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	// トークンをヘッダーから取得し、ユーザーIDを解析
	tokenString := c.GetHeader("Authorization")
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}

	// トークンが存在しない場合
	if tokenString == "" {
		c.JSON(http.StatusOK, gin.H{
			"hasToken":    false,
			"hasRoom":     false,
			"hasRequest":  false,
			"replyStatus": "none",
			"roomStatus":  "none",
		})
		return
	}

	claims := &models.MyClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return auth.JwtKey, nil
	})

	if err != nil {
		logger.Error("Failed to parse JWT token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	userID := claims.UserID
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		logger.Error("Failed to retrieve user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// ユーザーが作成したルームの有無と入室申請の有無
	hasRoom := user.HasRoom
	hasRequest := user.HasRequest

	var acceptedRequestCount int64
	// ユーザーの入室申請のステータスが"accepted"であるかどうかをチェック
	err = db.Model(&models.Challenger{}).Where("user_id = ? AND status = 'accepted'", userID).Count(&acceptedRequestCount).Error
	replyStatus := "none"
	if err == nil && acceptedRequestCount > 0 {
		replyStatus = "accepted"
	}

	// ユーザーが作成したルームに対して"pending"状態の入室申請があるかどうかをチェック
	var pendingRequestExists bool
	db.Model(&models.Challenger{}).
		Joins("join game_rooms on game_rooms.id = challengers.game_room_id").
		Where("game_rooms.user_id = ? AND challengers.status = 'pending'", userID).
		Select("count(*) > 0").Find(&pendingRequestExists)

	// ユーザーが作成したルームに対して"accepted"状態の入室申請があるかどうかをチェック
	var acceptedRequestExists bool
	db.Model(&models.Challenger{}).
		Joins("join game_rooms on game_rooms.id = challengers.game_room_id").
		Where("game_rooms.user_id = ? AND challengers.status = 'accepted'", userID).
		Select("count(*) > 0").Find(&acceptedRequestExists)

	var roomStatus string
	if acceptedRequestExists {
		roomStatus = "sent"
	} else if pendingRequestExists {
		roomStatus = "waiting"
	} else {
		roomStatus = "none"
	}

	// ユーザーが作成した有効なルームの一覧
	var rooms []struct {
		ID          uint      `json:"roomID"`
		CreatedAt   time.Time `json:"createdAt"`
		GameState   string    `json:"gameState"`
		MaxPlayers  int       `json:"maxPlayers"`
		UniqueToken string    `json:"uniqueToken"`
	}
	db.Model(&models.GameRoom{}).
		Where("user_id = ? AND game_state NOT IN ('disabled', 'finished')", userID).
		Select("id", "created_at", "game_state", "max_players", "unique_token").
		Find(&rooms)

	// ユーザーが送信した有効な入室申請の一覧
	var requests []struct {
		ID          uint   `json:"requestId"`
		RoomCreator string `json:"roomCreator"`
		Status      string `json:"status"`
	}
	db.Model(&models.Challenger{}).
		Joins("join game_rooms on game_rooms.id = challengers.game_room_id").
		Where("challengers.user_id = ? AND challengers.status IN ?", userID, []string{"pending", "accepted"}).
		Select("challengers.id", "game_rooms.room_creator", "challengers.status").
		Find(&requests)

	response := gin.H{
		"hasToken":    true,
		"hasRoom":     hasRoom,
		"hasRequest":  hasRequest,
		"replyStatus": replyStatus,
		"roomStatus":  roomStatus,
		"rooms":       rooms,
		"requests":    requests,
	}

	// 有効期限が1時間未満なら、同じユーザーIDで再発行したトークンを添える
	if time.Until(time.Unix(claims.ExpiresAt, 0)) < time.Hour {
		newToken, _, err := middlewares.GenerateToken(db, claims.SubscriptionStatus, userID)
		if err != nil {
			logger.Error("Token refresh error", zap.Error(err))
		} else {
			response["newToken"] = newToken
		}
	}

	c.JSON(http.StatusOK, response)
}
