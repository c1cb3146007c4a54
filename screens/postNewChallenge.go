package screens

import (
	"net/http"

	"infserver/middlewares"
	"infserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChallengerRequest は入室申請リクエストのボディを表す構造体です。
type ChallengerRequest struct {
	Nickname           string `json:"nickname"`           // 入室申請者のニックネーム
	SubscriptionStatus string `json:"subscriptionStatus"` // 課金ステータス
}

// ChallengerHandler は入室申請を処理するハンドラです。
func ChallengerHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	uniqueToken := c.Param("uniqueToken") // URLからUniqueTokenを取得

	// UniqueTokenを使用してGameRoomを検索
	var gameRoom models.GameRoom
	if err := db.Where("unique_token = ?", uniqueToken).First(&gameRoom).Error; err != nil {
		logger.Error("GameRoom not found with unique token", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "GameRoom not found"})
		return
	}

	// リクエストからニックネームを取得（その他のユーザー情報もここで取得可能）
	var request ChallengerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request binding error"})
		return
	}

	// TokenAuthentication関数でJWTの有効性を確認、無効であれば更新されたトークンを送付する
	userID, newToken, tokenValid, err := middlewares.TokenAuthentication(c, db, logger, request.SubscriptionStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token processing failed", "newToken": newToken})
		return
	}
	if !tokenValid {
		// 新規発行したトークンで再申請してもらう
		c.JSON(http.StatusOK, gin.H{"status": "token_invalid", "newToken": newToken})
		return
	}

	// 募集中のルームにのみ申請できる
	if gameRoom.GameState != "waiting" {
		c.JSON(http.StatusConflict, gin.H{"error": "This room is not accepting challengers"})
		return
	}

	// 自分のルームには申請できない
	if gameRoom.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot apply to your own room"})
		return
	}

	// 同じルームへの重複申請を拒否
	var duplicateCount int64
	db.Model(&models.Challenger{}).
		Where("game_room_id = ? AND user_id = ? AND status IN ?", gameRoom.ID, userID, []string{"pending", "accepted"}).
		Count(&duplicateCount)
	if duplicateCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You already applied to this room"})
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		logger.Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user data"})
		return
	}

	// 課金ステータスに応じた有効申請数の上限を確認
	requestLimit := 1
	if user.SubscriptionStatus == "paid" {
		requestLimit = 3
	}
	if user.ValidRequestCount >= requestLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "request_limit",
			"error":  "有効な入室申請数の上限に達しています",
		})
		return
	}

	// 新しい入室申請を作成
	newChallenger := models.Challenger{
		UserID:             userID,
		GameRoomID:         gameRoom.ID,
		ChallengerNickname: request.Nickname,
		Status:             "pending", // デフォルト値は"pending"
	}
	if err := db.Create(&newChallenger).Error; err != nil {
		logger.Error("Failed to create a new challenger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create a new request"})
		return
	}

	// 入室申請作成後にユーザーのカウンタを更新
	user.ValidRequestCount++
	user.HasRequest = true
	if err := db.Save(&user).Error; err != nil {
		logger.Error("Failed to update user's has_request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request status"})
		return
	}

	// リクエストが成功した場合のレスポンス。トークンが再発行されていれば併せて返す
	response := gin.H{
		"message":   "Request successfully created",
		"requestId": newChallenger.ID,
	}
	if newToken != "" {
		response["newToken"] = newToken
	}
	c.JSON(http.StatusCreated, response)
}
