package broadcast

import (
	"infserver/influence/game"
	"infserver/models"

	"go.uber.org/zap"
)

// ゲームの状態をブロードキャストするヘルパー関数。
// 手札の見え方が視点ごとに異なるため、全員同一のJSONではなく
// 参加者ごとに射影した状態を送ります。呼び出し側がsession.Muを保持していること。
func BroadcastGameState(session *models.Game, logger *zap.Logger) {
	playersInfo := make([]map[string]interface{}, 0, len(session.SeatOrder))
	for _, id := range session.SeatOrder {
		playersInfo = append(playersInfo, map[string]interface{}{
			"id":       id,
			"nickName": session.Nicknames[id],
		})
	}

	for userID, client := range session.Clients {
		if client == nil {
			continue
		}
		gameState := map[string]interface{}{
			"type":          "gameState",
			"status":        session.Status,
			"playersOnline": session.PlayersOnlineStatus,
			"playersInfo":   playersInfo,
		}
		if session.Engine != nil {
			gameState["game"] = session.Engine.ViewFor(userID)
		}
		if err := client.WriteJSON(gameState); err != nil {
			logger.Error("Failed to broadcast game state", zap.Error(err), zap.Uint("UserID", userID))
		}
	}
}

// SendPrivateMessages はエンジンが返した秘匿メッセージを宛先にのみ届けます。
// 宛先が切断中の場合は送らず、再接続時の再送に任せます。
func SendPrivateMessages(session *models.Game, messages []game.PrivateMessage, logger *zap.Logger) {
	for _, pm := range messages {
		client := session.Clients[pm.PlayerID]
		if client == nil {
			continue
		}
		envelope := map[string]interface{}{
			"type":    pm.Kind,
			"payload": pm.Payload,
		}
		if err := client.WriteJSON(envelope); err != nil {
			logger.Error("Failed to send private message", zap.Error(err), zap.Uint("UserID", pm.PlayerID))
		}
	}
}

// NotifyRoomOnlineStatus は接続状態の変化を同じルームの他の参加者へ通知します。
func NotifyRoomOnlineStatus(roomID uint, userID uint, isOnline bool, clients *models.ClientList, logger *zap.Logger) {
	onlineStatusMessage := map[string]interface{}{
		"type":     "onlineStatus",
		"userID":   userID,
		"isOnline": isOnline,
	}
	clients.Each(func(client *models.Client) {
		if client.RoomID == roomID && client.UserID != userID {
			if err := client.WriteJSON(onlineStatusMessage); err != nil {
				logger.Error("Failed to send online status message", zap.Error(err))
			}
		}
	})
}
