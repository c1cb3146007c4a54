package actions

import (
	"encoding/json"
	"math/rand"

	"infserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Helper function to send error message to the client via WebSocket
func sendErrorMessage(client *models.Client, errorMessage string) {
	client.WriteJSON(map[string]string{"error": errorMessage}) // Ignoring error for simplicity
}

// エンジンに無視された操作の診断コードを送信者にだけ返すヘルパー関数。
// 状態は変わっていないため、ブロードキャストはしません。
func sendRejectionCode(client *models.Client, code string) {
	client.WriteJSON(map[string]interface{}{
		"type": "rejected",
		"code": code,
	})
}

// クライアントごとにメッセージ読み取りするゴルーチン
func HandleClient(client *models.Client, clients *models.ClientList, sessions *models.GameSessions, randGen *rand.Rand, db *gorm.DB, logger *zap.Logger) {
	defer func() {
		client.Conn.Close() // クライアントの接続を閉じる
		clients.Remove(client)
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		// 受信したメッセージをJSON形式でデコード
		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Error("Error decoding message", zap.Error(err))
			continue
		}

		session, exists := sessions.Load(client.RoomID)
		if !exists {
			// セッションが見つからないエラー処理
			sendErrorMessage(client, "Game session not found")
			continue
		}

		// メッセージタイプに基づいて適切なアクションを実行
		msgType, _ := msg["type"].(string)
		switch msgType {
		case "startGame":
			handleStartGame(session, client, randGen, db, logger)
		case "action":
			handleAction(session, client, msg, db, logger)
		case "response":
			handleResponse(session, client, msg, db, logger)
		case "chatMessage":
			handleChatMessage(client, msg, clients, logger)
		case "retry":
			handleRetry(session, client, clients, msg, randGen, db, logger)
		default:
			logger.Info("Received unknown message type", zap.Any("message", msg))
		}
	}
}
