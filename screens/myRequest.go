package screens

import (
	"net/http"
	"strconv"

	"infserver/middlewares"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// DisableMyRequest は自分の保留中の入室申請を1件取り下げます。
func DisableMyRequest(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	// JWTトークンからユーザーIDを取得
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		logger.Error("Failed to get user ID from token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	requestID, err := strconv.ParseUint(c.Param("requestID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	// 自分の"pending"状態の申請であることを確認した上で"disabled"に更新
	result := db.Model(&models.Challenger{}).
		Where("id = ? AND user_id = ? AND status = 'pending'", requestID, userID).
		Update("status", "disabled")

	if result.Error != nil {
		logger.Error("Failed to disable the request", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "申請の無効化に失敗しました"})
		return
	}

	if result.RowsAffected == 0 {
		// 対象の申請が見つからない、またはすでに無効化されている場合
		c.JSON(http.StatusNotFound, gin.H{"error": "有効な申請が見つかりません"})
		return
	}

	// 申請が無効化されたため、ユーザーの有効申請数を減算
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		logger.Error("Failed to fetch user for request counter update", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの申請状態更新に失敗しました"})
		return
	}
	if user.ValidRequestCount > 0 {
		user.ValidRequestCount--
	}
	user.HasRequest = user.ValidRequestCount > 0
	if err := db.Save(&user).Error; err != nil {
		logger.Error("Failed to update user's HasRequest", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの申請状態更新に失敗しました"})
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusOK, gin.H{"message": "申請が無効化されました"})
}

// MyRequestHandler handles the request for viewing the status of applications to rooms.
func MyRequestHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	// JWTトークンからユーザーIDを取得
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		logger.Error("Failed to get user ID from token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	// 入室申請情報と関連するルーム情報を取得（取り下げ済みは除く）
	var requests []struct {
		ID                 uint   `json:"requestId"`
		ChallengerNickname string `json:"challengerNickname"`
		RoomCreator        string `json:"roomCreator"`
		MaxPlayers         int    `json:"maxPlayers"`
		Status             string `json:"status"`
		CreatedAt          string `json:"createdAt"`
	}
	err = db.Table("challengers").
		Select("challengers.id, challengers.challenger_nickname, game_rooms.room_creator, game_rooms.max_players, challengers.status, challengers.created_at").
		Joins("join game_rooms on game_rooms.id = challengers.game_room_id").
		Where("challengers.user_id = ? AND challengers.status <> 'disabled'", userID).
		Scan(&requests).Error

	if err != nil {
		logger.Error("Failed to retrieve request information", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "申請情報の取得に失敗しました"})
		return
	}

	// 取得した情報をレスポンスとして返す
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
	})
}
