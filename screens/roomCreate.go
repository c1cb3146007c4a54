package screens

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"infserver/middlewares"
	"infserver/models"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RoomCreate(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request models.RoomCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Room create request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "request_binding_error",
			"message": err.Error(),
		})
		return
	}

	// 最大参加人数は2〜6人。省略時は6人
	if request.MaxPlayers == 0 {
		request.MaxPlayers = 6
	}
	if request.MaxPlayers < 2 || request.MaxPlayers > 6 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "invalid_max_players",
			"error":  "MaxPlayers must be between 2 and 6",
		})
		return
	}

	// TokenAuthentication関数でJWTの有効性を確認、無効であれば更新されたトークンを送付する
	userID, newToken, tokenValid, err := middlewares.TokenAuthentication(c, db, logger, request.SubscriptionStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token processing failed", "newToken": newToken})
		return
	}
	if !tokenValid {
		c.JSON(http.StatusOK, gin.H{"status": "token_invalid", "newToken": newToken})
		return
	}

	// 課金ステータスに応じた有効ルーム数の上限を確認
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		logger.Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User fetch failed"})
		return
	}
	roomLimit := 1
	if user.SubscriptionStatus == "paid" {
		roomLimit = 3
	}
	if user.ValidRoomCount >= roomLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "room_limit",
			"error":  "User already has the maximum number of active rooms",
		})
		return
	}

	// 一意の招待URLを生成し、重複がないことを確認する部分
	var uniqueToken string
	for {
		bytes := make([]byte, 8) // 64ビットの乱数を生成
		_, err := rand.Read(bytes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate unique token"})
			return
		}
		uniqueToken = hex.EncodeToString(bytes) // 16進数の文字列に変換

		// 生成されたトークンがデータベース内で既に使用されていないかを確認
		var exists bool
		db.Model(&models.GameRoom{}).Select("count(*) > 0").Where("unique_token = ?", uniqueToken).Find(&exists)
		if !exists {
			break // 重複がなければループを抜ける
		}
		// 重複があればループを続け、新しいトークンを生成
	}

	// 新しいゲームルームを作成
	newGameRoom := models.GameRoom{
		UserID:      userID,
		RoomCreator: request.Nickname,
		GameState:   "waiting",
		UniqueToken: uniqueToken,
		MaxPlayers:  request.MaxPlayers,
	}
	if err := db.Create(&newGameRoom).Error; err != nil {
		logger.Error("Failed to create a new game room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームルーム作成に失敗しました"})
		return
	}

	// ゲームルームの作成に成功したので、ユーザーのカウンタを更新
	user.ValidRoomCount++
	user.HasRoom = true
	if err := db.Save(&user).Error; err != nil {
		logger.Error("Failed to update user's room status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user room status"})
		return
	}

	// 成功レスポンスを返す。トークンが再発行されていれば併せて返す
	response := gin.H{
		"status":      "success",
		"gameRoomID":  newGameRoom.ID,
		"uniqueToken": newGameRoom.UniqueToken,
	}
	if newToken != "" {
		response["newToken"] = newToken
	}
	c.JSON(http.StatusOK, response)
}
