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

// ルーム作成者向けに、指定ルームの詳細と保留中の入室申請を返すハンドラー
func MyRoomInfo(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	// JWTトークンからユーザーIDを取得
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		logger.Error("Failed to get user ID from token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "token_validation_error",
			"error":  "認証に失敗しました",
		})
		return
	}

	roomID, err := strconv.ParseUint(c.Param("roomID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	// 自分が所有する有効なルームであることを確認
	var room models.GameRoom
	if err := db.Where("id = ? AND user_id = ? AND game_state NOT IN ('disabled', 'finished')", roomID, userID).
		First(&room).Error; err != nil {
		logger.Error("Failed to find room owned by the user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{
			"status": "not_your_room_error",
			"error":  "ユーザーが所有するルームが見つかりません",
		})
		return
	}

	// ルームに紐づく保留中の入室申請を取得
	var challengers []struct {
		ID                 uint   `json:"requestId"`
		ChallengerNickname string `json:"challengerNickname"`
		Status             string `json:"status"`
	}
	db.Model(&models.Challenger{}).Select("id", "challenger_nickname", "status").
		Where("game_room_id = ? AND status = ?", room.ID, "pending").Scan(&challengers)

	// 承認済みの人数（定員表示用）
	var acceptedCount int64
	db.Model(&models.Challenger{}).
		Where("game_room_id = ? AND status = ?", room.ID, "accepted").Count(&acceptedCount)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"room": gin.H{
			"roomID":        room.ID,
			"roomCreator":   room.RoomCreator,
			"maxPlayers":    room.MaxPlayers,
			"gameState":     room.GameState,
			"uniqueToken":   room.UniqueToken,
			"createdAt":     room.CreatedAt,
			"acceptedCount": acceptedCount,
			"challengers":   challengers,
		},
	})
}

// ReplyRequest はリプライリクエストのボディを表す構造体です。
type ReplyRequest struct {
	Status string `json:"status"` // "accepted"または"rejected"
}

// ReplyHandler は入室申請に対するリプライ（承認または拒否）を処理します。
func ReplyHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var replyRequest ReplyRequest
	if err := c.ShouldBindJSON(&replyRequest); err != nil {
		logger.Error("Failed to bind reply request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if replyRequest.Status != "accepted" && replyRequest.Status != "rejected" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	// ユーザーIDをトークンから取得
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	requestID, err := strconv.ParseUint(c.Param("requestID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	// 自分のルーム宛の保留中申請であることを確認
	var challenger models.Challenger
	if err := db.Joins("JOIN game_rooms ON game_rooms.id = challengers.game_room_id").
		Where("challengers.id = ? AND game_rooms.user_id = ? AND challengers.status = 'pending'", requestID, userID).
		First(&challenger).Error; err != nil {
		logger.Error("Failed to find pending challenger", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending challenger found or unauthorized"})
		return
	}

	if replyRequest.Status == "accepted" {
		// 承認すると定員を超えないか確認（作成者も1席使う）
		var room models.GameRoom
		if err := db.First(&room, challenger.GameRoomID).Error; err != nil {
			logger.Error("Failed to find room for capacity check", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room capacity"})
			return
		}
		var acceptedCount int64
		db.Model(&models.Challenger{}).
			Where("game_room_id = ? AND status = ?", room.ID, "accepted").Count(&acceptedCount)
		if int(acceptedCount)+1 >= room.MaxPlayers {
			c.JSON(http.StatusConflict, gin.H{
				"status": "room_full",
				"error":  "ルームの定員に達しています",
			})
			return
		}
	}

	if err := db.Model(&challenger).Update("status", replyRequest.Status).Error; err != nil {
		logger.Error("Failed to update challenger status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenger status"})
		return
	}

	// 拒否の場合、申請者の有効申請数を減算
	if replyRequest.Status == "rejected" {
		var applicant models.User
		if err := db.First(&applicant, challenger.UserID).Error; err == nil {
			if applicant.ValidRequestCount > 0 {
				applicant.ValidRequestCount--
			}
			applicant.HasRequest = applicant.ValidRequestCount > 0
			if err := db.Save(&applicant).Error; err != nil {
				logger.Error("Failed to update user's HasRequest status", zap.Error(err))
				// 申請の状態更新自体は成功しているため、ここではレスポンスを変えずログのみ残す
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply processed successfully"})
}

// DeleteMyRoom は自分の有効なルームを全て無効化します。
func DeleteMyRoom(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	// JWTトークンからユーザーIDを取得
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		logger.Error("Failed to get user ID from token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "認証に失敗しました",
		})
		return
	}

	// 対象ルームを取得（既に無効・終了のものは除外）
	roomIDs := []uint{}
	db.Model(&models.GameRoom{}).
		Where("user_id = ? AND game_state NOT IN ('disabled', 'finished')", userID).
		Pluck("id", &roomIDs)

	if len(roomIDs) == 0 {
		// 対象のルームが見つからない、またはユーザーが所有していない場合
		c.JSON(http.StatusNotFound, gin.H{
			"error": "ルームが見つからないか、所有していません",
		})
		return
	}

	// 影響を受ける入室申請を先に取得しておく
	challengers := []models.Challenger{}
	db.Where("game_room_id IN ? AND status IN ?", roomIDs, []string{"pending", "accepted"}).Find(&challengers)

	// ルームを無効化
	if err := db.Model(&models.GameRoom{}).
		Where("id IN ?", roomIDs).
		Update("game_state", "disabled").Error; err != nil {
		logger.Error("Failed to delete the room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "ルームの削除に失敗しました",
		})
		return
	}

	// 作成者のルームカウンタをリセット
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"valid_room_count": 0, "has_room": false}).Error; err != nil {
		logger.Error("Failed to update user's HasRoom status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user's room status"})
		return
	}

	// 無効化されたルームに対する全ての入室申請のStatusを"disabled"に更新
	if err := db.Model(&models.Challenger{}).
		Where("game_room_id IN ?", roomIDs).
		Update("status", "disabled").Error; err != nil {
		logger.Error("Failed to update status of challengers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challengers' status"})
		return
	}

	// 申請者の有効申請数を減算
	for _, challenger := range challengers {
		var applicant models.User
		if err := db.First(&applicant, challenger.UserID).Error; err != nil {
			continue
		}
		if applicant.ValidRequestCount > 0 {
			applicant.ValidRequestCount--
		}
		applicant.HasRequest = applicant.ValidRequestCount > 0
		if err := db.Save(&applicant).Error; err != nil {
			logger.Error("Failed to update challengers' HasRequest status", zap.Error(err))
		}
	}

	// 正常に処理が完了したことをクライアントに通知
	c.JSON(http.StatusOK, gin.H{"message": "ルームが正常に削除されました"})
}
