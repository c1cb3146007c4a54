package actions

import (
	"math/rand"
	"time"

	"infserver/influence/broadcast"
	"infserver/influence/game"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleRetry はゲーム終了後の再戦リクエストを処理します。着席者全員が
// 望んだ場合のみ、同じ席順のまま新しい山札でゲームを作り直します。
// 誰かが辞退した時点でルームは完全に終了します。
func handleRetry(session *models.Game, client *models.Client, clients *models.ClientList, msg map[string]interface{}, randGen *rand.Rand, db *gorm.DB, logger *zap.Logger) {
	session.Mu.Lock()
	defer session.Mu.Unlock()

	// 終了したゲームでのみ再戦を受け付ける
	if session.Status != "finished" {
		logger.Info("Retry request is not applicable.")
		return
	}

	// msgから再戦リクエストを取得
	wantRetry, ok := msg["wantRetry"].(bool)
	if !ok {
		// wantRetryの値が正しく取得できない場合のエラーハンドリング
		logger.Error("Invalid retry request", zap.Any("message", msg))
		return
	}

	if session.RetryRequests == nil {
		session.RetryRequests = make(map[uint]bool)
	}
	session.RetryRequests[client.UserID] = wantRetry

	// 再戦を望まない場合、ルームを直ちに閉じる
	if !wantRetry {
		session.Status = "closed"
		finalizeRoomRecords(session.ID, db, logger)
		broadcast.BroadcastGameState(session, logger)
		return
	}

	// 再戦を望む場合、他の参加者に通知する
	sendRetryRequestNotification(client, clients, logger)

	// 着席者全員からの再戦リクエストを確認
	if len(session.RetryRequests) != len(session.SeatOrder) {
		return
	}
	for _, id := range session.SeatOrder {
		if !session.RetryRequests[id] {
			return
		}
	}

	// 全員が望んだので、同じ席順で新しいゲームを開始
	engine, err := game.NewGame(session.ID, session.Seats(), randGen)
	if err != nil {
		logger.Error("Failed to create game engine for rematch", zap.Error(err))
		return
	}
	session.Engine = engine
	session.Status = "in_progress"
	session.RetryRequests = make(map[uint]bool)

	if err := db.Model(&models.GameRoom{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{"game_state": "in_progress", "start_time": time.Now()}).Error; err != nil {
		logger.Error("Failed to update game room state for rematch", zap.Error(err))
	}

	logger.Info("Rematch started", zap.Uint("RoomID", session.ID))
	broadcast.BroadcastGameState(session, logger)
}

// finalizeRoomRecords は再戦が成立しなかったルームと参加者のレコードを
// 終了状態へ更新します。
func finalizeRoomRecords(roomID uint, db *gorm.DB, logger *zap.Logger) {
	err := db.Transaction(func(tx *gorm.DB) error {
		// Update game state in the database
		if err := tx.Model(&models.GameRoom{}).Where("id = ?", roomID).Update("game_state", "finished").Error; err != nil {
			return err
		}

		var gameRoom models.GameRoom
		if err := tx.Where("id = ?", roomID).First(&gameRoom).Error; err != nil {
			return err
		}

		// 作成者の有効ルーム数を減算
		var owner models.User
		if err := tx.First(&owner, gameRoom.UserID).Error; err != nil {
			return err
		}
		if owner.ValidRoomCount > 0 {
			owner.ValidRoomCount--
		}
		owner.HasRoom = owner.ValidRoomCount > 0
		if err := tx.Save(&owner).Error; err != nil {
			return err
		}

		// 承認済み参加者の有効申請数を減算
		var challengers []models.Challenger
		if err := tx.Where("game_room_id = ? AND status = 'accepted'", gameRoom.ID).Find(&challengers).Error; err != nil {
			return err
		}
		for _, challenger := range challengers {
			var applicant models.User
			if err := tx.First(&applicant, challenger.UserID).Error; err != nil {
				return err
			}
			if applicant.ValidRequestCount > 0 {
				applicant.ValidRequestCount--
			}
			applicant.HasRequest = applicant.ValidRequestCount > 0
			if err := tx.Save(&applicant).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		logger.Error("Failed to finalize game room updates", zap.Error(err))
	}
}

func sendRetryRequestNotification(from *models.Client, clients *models.ClientList, logger *zap.Logger) {
	chatMessage := "SYSTEM: " + from.Nickname + " sent a retry request!"
	timestamp := time.Now().Format(time.RFC3339)
	message := map[string]interface{}{
		"type":      "chatMessage",
		"message":   chatMessage,
		"from":      0,
		"timestamp": timestamp,
	}
	clients.Each(func(c *models.Client) {
		if c.RoomID == from.RoomID && c.UserID != from.UserID {
			if err := c.WriteJSON(message); err != nil {
				logger.Error("Failed to send retry request notification",
					zap.Uint("to", c.UserID),
					zap.Error(err),
				)
			} else {
				logger.Info("Retry request notification sent",
					zap.Uint("to", c.UserID),
				)
			}
		}
	})
}
