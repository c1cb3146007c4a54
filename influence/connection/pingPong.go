package connection

import (
	"time"

	"infserver/influence/broadcast"
	"infserver/models"

	"go.uber.org/zap"
)

// MaintainWebSocketConnection はクライアントのWebSocket接続を維持し、Ping/Pongメッセージで接続をチェックします。
func MaintainWebSocketConnection(c *models.Client, clients *models.ClientList, sessions *models.GameSessions, logger *zap.Logger) {
	session, _ := sessions.Load(c.RoomID)

	defer func() {
		c.Conn.Close() // ゴルーチンが終了する時にWebSocket接続を閉じる
		clients.Remove(c)
		logger.Info("Client removed", zap.Uint("UserID", c.UserID))
		if session != nil {
			session.Mu.Lock()
			// 再接続済みの新しいクライアントをオフライン扱いにしないよう確認する
			if session.Clients[c.UserID] == c {
				session.PlayersOnlineStatus[c.UserID] = false
			}
			session.Mu.Unlock()
		}
		// クライアントが切断されたことをルームの他の参加者に通知
		broadcast.NotifyRoomOnlineStatus(c.RoomID, c.UserID, false, clients, logger)
	}()

	// Pongハンドラの設定
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second)) // 60秒の読み取りデッドラインを更新
		if session != nil {
			session.Mu.Lock()
			session.PlayersOnlineStatus[c.UserID] = true
			session.Mu.Unlock()
		}
		// クライアントがオンラインであることをルームの他の参加者に通知
		broadcast.NotifyRoomOnlineStatus(c.RoomID, c.UserID, true, clients, logger)
		return nil
	})

	// Pingの送信間隔を設定
	pingPeriod := 10 * time.Second // 10秒ごとにPingを送信
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := c.Ping(); err != nil {
			logger.Error("Error sending ping or connection is closed", zap.Error(err))
			return // エラーが発生した場合はゴルーチンを終了
		}
	}
}
