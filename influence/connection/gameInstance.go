package connection

import (
	"context"
	"fmt"

	"infserver/influence/broadcast"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ManageGameInstance はルームのライブセッションを見つけるか作成し、接続者を着席させます。
// 席は入室順で、そのままゲーム開始時の手番順になります。
func ManageGameInstance(ctx context.Context, db *gorm.DB, logger *zap.Logger, sessions *models.GameSessions, client *models.Client) (*models.Game, error) {
	var gameRoom models.GameRoom
	if err := db.Where("id = ?", client.RoomID).First(&gameRoom).Error; err != nil {
		logger.Error("Failed to retrieve game room from database", zap.Error(err))
		return nil, err
	}

	session, existed := sessions.LoadOrStore(client.RoomID, func() *models.Game {
		return &models.Game{
			ID:                  client.RoomID,
			Nicknames:           make(map[uint]string),
			Clients:             make(map[uint]*models.Client),
			PlayersOnlineStatus: make(map[uint]bool),
			Status:              "waiting",
			RetryRequests:       make(map[uint]bool),
		}
	})
	if !existed {
		logger.Info("New game session created", zap.Uint("RoomID", client.RoomID))
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.HasSeat(client.UserID) {
		// 再接続。席はそのままに接続だけ差し替える
		session.Clients[client.UserID] = client
		session.PlayersOnlineStatus[client.UserID] = true
		if client.Nickname == "" {
			client.Nickname = session.Nicknames[client.UserID]
		}
		logger.Info("Player rejoined the game", zap.Uint("UserID", client.UserID), zap.Uint("RoomID", client.RoomID))
	} else {
		// 新規の着席は開始前のルームに限る
		if session.Status != "waiting" {
			return nil, fmt.Errorf("game already started in room %d", client.RoomID)
		}
		if len(session.SeatOrder) >= gameRoom.MaxPlayers {
			return nil, fmt.Errorf("room %d is full", client.RoomID)
		}
		session.SeatOrder = append(session.SeatOrder, client.UserID)
		session.Nicknames[client.UserID] = client.Nickname
		session.Clients[client.UserID] = client
		session.PlayersOnlineStatus[client.UserID] = true
		logger.Info("Player seated",
			zap.Uint("UserID", client.UserID),
			zap.Uint("RoomID", client.RoomID),
			zap.Int("seated", len(session.SeatOrder)),
		)
	}

	broadcast.BroadcastGameState(session, logger)
	logger.Info("Game state broadcasted", zap.Uint("RoomID", client.RoomID))

	return session, nil
}
