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

// handleStartGame はルーム作成者の開始要求でゲーム本体を起動します。
// 席順は入室順のままで、以降の手番順になります。
func handleStartGame(session *models.Game, client *models.Client, randGen *rand.Rand, db *gorm.DB, logger *zap.Logger) {
	session.Mu.Lock()
	defer session.Mu.Unlock()

	if client.Role != "Creator" {
		sendErrorMessage(client, "Only the room creator can start the game")
		return
	}
	if session.Status != "waiting" {
		sendErrorMessage(client, "Game already started")
		return
	}
	if len(session.SeatOrder) < 2 {
		sendErrorMessage(client, "Need at least 2 players to start")
		return
	}

	engine, err := game.NewGame(session.ID, session.Seats(), randGen)
	if err != nil {
		logger.Error("Failed to create game engine", zap.Error(err))
		sendErrorMessage(client, "Failed to start the game")
		return
	}
	session.Engine = engine
	session.Status = "in_progress"
	session.RetryRequests = make(map[uint]bool)

	// ルームレコードを進行中に更新
	if err := db.Model(&models.GameRoom{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{"game_state": "in_progress", "start_time": time.Now()}).Error; err != nil {
		logger.Error("Failed to update game room state", zap.Error(err))
	}

	logger.Info("Game started", zap.Uint("RoomID", session.ID), zap.Int("players", len(session.SeatOrder)))
	broadcast.BroadcastGameState(session, logger)
}
