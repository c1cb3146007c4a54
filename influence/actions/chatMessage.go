package actions

import (
	"time"

	"infserver/models"

	"go.uber.org/zap"
)

// チャットメッセージを処理する関数。ルール進行のログとは別系統で、
// 同じルームの参加者へそのまま中継します。
func handleChatMessage(client *models.Client, msg map[string]interface{}, clients *models.ClientList, logger *zap.Logger) {
	// ここではmsgからチャットメッセージを取り出す
	chatMessage, ok := msg["message"].(string)
	if !ok {
		sendErrorMessage(client, "Invalid chat message")
		return
	}

	// 現在のタイムスタンプを取得
	timestamp := time.Now().Format(time.RFC3339)

	logger.Info("Received chat message",
		zap.String("message", chatMessage),
		zap.Uint("from", client.UserID),
		zap.String("timestamp", timestamp),
	)

	message := map[string]interface{}{
		"type":      "chatMessage",
		"message":   chatMessage,
		"from":      client.UserID, // 送信者の識別子
		"nickname":  client.Nickname,
		"timestamp": timestamp, // メッセージのタイムスタンプ
	}

	// ゲームルーム内の全クライアントにメッセージをブロードキャストする
	clients.Each(func(c *models.Client) {
		// 同じゲームルーム内のクライアントにのみメッセージを送信するロジック
		if c.RoomID == client.RoomID {
			if err := c.WriteJSON(message); err != nil {
				logger.Error("Failed to send chat message",
					zap.Uint("to", c.UserID),
					zap.Error(err),
				)
			}
		}
	})
}
