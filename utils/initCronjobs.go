package utils

import (
	"errors"
	"time"

	"infserver/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func CronCleaner(db *gorm.DB, logger *zap.Logger, sessions *models.GameSessions) {
	c := cron.New()

	// 開始されないまま放置されたルームをdisabledに更新するジョブ（毎日実行）
	c.AddFunc("@daily", func() {
		logger.Info("GameStateを更新する処理を開始")
		// 24時間更新がないwaitingのルームをdisabledに更新し、そのIDを取得
		staleRoomIDs := []uint{}
		db.Model(&models.GameRoom{}).
			Where("game_state = ? AND updated_at <= ?", "waiting", time.Now().Add(-24*time.Hour)).
			Pluck("id", &staleRoomIDs).
			Update("game_state", "disabled")

		// 関連する入室申請と利用者のカウンタを更新
		for _, roomID := range staleRoomIDs {
			var room models.GameRoom
			if err := db.First(&room, roomID).Error; err != nil {
				continue
			}

			// ルーム作成者の有効ルーム数を減算
			var owner models.User
			if err := db.First(&owner, room.UserID).Error; err == nil {
				if owner.ValidRoomCount > 0 {
					owner.ValidRoomCount--
				}
				owner.HasRoom = owner.ValidRoomCount > 0
				db.Save(&owner)
			}

			// 申請者の有効申請数を減算
			challengers := []models.Challenger{}
			db.Where("game_room_id = ? AND status IN ?", roomID, []string{"pending", "accepted"}).Find(&challengers)
			for _, challenger := range challengers {
				var applicant models.User
				if err := db.First(&applicant, challenger.UserID).Error; err != nil {
					continue
				}
				if applicant.ValidRequestCount > 0 {
					applicant.ValidRequestCount--
				}
				applicant.HasRequest = applicant.ValidRequestCount > 0
				db.Save(&applicant)
			}

			db.Model(&models.Challenger{}).
				Where("game_room_id = ?", roomID).
				Update("status", "disabled")
		}
	})

	// 終了・無効化されたルームを削除するジョブ（"分 時 日 月 曜日"）
	c.AddFunc("0 3 * * *", func() {
		logger.Info("終了済みルームを削除する処理を開始")
		// 7日以上経過したdisabledまたはfinishedのルームを取得
		deadRoomIDs := []uint{}
		db.Model(&models.GameRoom{}).
			Where("game_state IN ? AND updated_at <= ?", []string{"disabled", "finished"}, time.Now().Add(-7*24*time.Hour)).
			Pluck("id", &deadRoomIDs)

		// それぞれのルームに対して入室申請を削除
		if len(deadRoomIDs) > 0 {
			db.Where("game_room_id IN ?", deadRoomIDs).Delete(&models.Challenger{})
		}

		// 最後にルーム自体を削除
		result := db.Where("id IN ?", deadRoomIDs).Delete(&models.GameRoom{})
		if result.Error != nil {
			logger.Error("ルーム削除に失敗しました", zap.Error(result.Error))
		} else {
			logger.Info("ルーム削除完了", zap.Int("rooms_deleted", int(result.RowsAffected)))
		}

		// レコードが消えたルームのメモリ上セッションも破棄する
		sessions.Range(func(roomID uint, session *models.Game) bool {
			var room models.GameRoom
			err := db.First(&room, roomID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || room.GameState == "disabled" {
				sessions.Delete(roomID)
				logger.Info("セッションを破棄", zap.Uint("roomID", roomID))
			}
			return true
		})
	})

	c.Start()
}
