package actions

import (
	"time"

	"infserver/influence/broadcast"
	"infserver/influence/game"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleAction は手番プレイヤーの新しいアクションをエンジンへ渡します。
func handleAction(session *models.Game, client *models.Client, msg map[string]interface{}, db *gorm.DB, logger *zap.Logger) {
	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.Engine == nil || session.Status != "in_progress" {
		sendErrorMessage(client, "Game is not in progress")
		return
	}

	actionType, ok := msg["actionType"].(string)
	if !ok {
		sendErrorMessage(client, "Invalid action type")
		return
	}
	var targetID uint
	if targetFloat, ok := msg["target"].(float64); ok {
		targetID = uint(targetFloat)
	}

	// 手番の所有権はエンジンではなく呼び出し側で確認する
	if session.Engine.CurrentPlayer().ID != client.UserID {
		sendErrorMessage(client, "Not your turn")
		logger.Info("Action from non-turn player", zap.Uint("UserID", client.UserID))
		return
	}

	res := session.Engine.Initiate(client.UserID, actionType, targetID)
	finishEngineCall(session, client, res, db, logger)
}

// finishEngineCall はエンジン呼び出し後の共通処理です。黙殺された入力は
// 診断コードを送信者にのみ返し、受理された場合は全員に新しい状態を配信します。
func finishEngineCall(session *models.Game, client *models.Client, res game.Result, db *gorm.DB, logger *zap.Logger) {
	if res.Code != game.CodeOK {
		sendRejectionCode(client, res.Code)
		logger.Info("Engine rejected input", zap.String("code", res.Code), zap.Uint("UserID", client.UserID))
		return
	}

	broadcast.BroadcastGameState(session, logger)
	broadcast.SendPrivateMessages(session, res.Private, logger)

	if session.Engine.GameOver && session.Status != "finished" {
		session.Status = "finished"
		markRoomFinished(session.ID, db, logger)
		logger.Info("Game finished", zap.Uint("RoomID", session.ID), zap.Uint("WinnerID", session.Engine.WinnerID))
	}
}

// markRoomFinished はルームレコードだけを終了状態にします。参加者のフラグや
// カウンタは再戦の可能性が残るため、再戦辞退かルーム削除まで触りません。
func markRoomFinished(roomID uint, db *gorm.DB, logger *zap.Logger) {
	if err := db.Model(&models.GameRoom{}).Where("id = ?", roomID).
		Updates(map[string]interface{}{"game_state": "finished", "finish_time": time.Now()}).Error; err != nil {
		logger.Error("Failed to mark game room finished", zap.Error(err))
	}
}
