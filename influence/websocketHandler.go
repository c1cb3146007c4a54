package influence

import (
	"context"
	"net/http"

	"infserver/influence/actions"
	"infserver/influence/broadcast"
	"infserver/influence/connection"
	"infserver/influence/database"
	"infserver/influence/game"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
)

// WebSocket接続へのアップグレードを行う関数
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, db *gorm.DB, rdb *redis.Client, logger *zap.Logger, clients *models.ClientList, sessions *models.GameSessions, upgrader websocket.Upgrader) {
	// ユーザーコンテキストの取得
	clientContext, err := connection.FetchClientContext(ctx, r, db, logger)
	if err != nil {
		logger.Error("Error fetching client context", zap.Error(err))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// セッションIDの検証と復元。HTTPエラーを返せるようアップグレード前に済ませる
	sessionID := r.Header.Get("SessionID") // クライアントが送るセッションID
	if sessionID != "" {
		restored := database.ValidateSessionID(ctx, rdb, sessionID, logger)
		if restored == nil {
			// セッションIDが無効または期限切れの場合
			http.Error(w, "Invalid or expired session ID", http.StatusUnauthorized)
			return
		}
		// セッション情報に基づいてクライアント情報を復元
		clientContext.UserID = restored.UserID
		clientContext.RoomID = restored.RoomID
		clientContext.Role = restored.Role
		if restored.Nickname != "" {
			clientContext.Nickname = restored.Nickname
		}
		// 旧セッションの削除。新しいIDは接続確立後に発行する
		rdb.Del(ctx, "session:"+sessionID)
	}

	// WebSocket接続へのアップグレードと確立
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// WebSocket接続のアップグレードに失敗
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &models.Client{
		Conn:     conn,
		UserID:   clientContext.UserID,
		RoomID:   clientContext.RoomID,
		Role:     clientContext.Role,
		Nickname: clientContext.Nickname,
	}

	// クライアントリストに新規クライアントを追加
	clients.Add(client)
	logger.Info("New client added", zap.Uint("UserID", client.UserID), zap.Uint("RoomID", client.RoomID), zap.String("Role", client.Role))

	// WebSocketのCloseHandlerを設定
	client.Conn.SetCloseHandler(func(code int, text string) error {
		// Closeイベントが発生した時の処理
		logger.Info("WebSocket closed", zap.Int("code", code), zap.String("reason", text))
		client.Conn.Close() // 念のため、接続を閉じる
		clients.Remove(client)
		return nil
	})

	// ゲームセッションの検索または作成と着席
	session, err := connection.ManageGameInstance(ctx, db, logger, sessions, client)
	if err != nil {
		logger.Error("Error managing game instance", zap.Error(err))
		client.WriteJSON(map[string]string{"error": err.Error()})
		conn.Close()
		clients.Remove(client)
		return
	}

	// 乱数生成器のインスタンスを生成
	randGen := CreateLocalRandGenerator()

	// クライアントごとにメッセージ読み取りゴルーチンを起動
	go actions.HandleClient(client, clients, sessions, randGen, db, logger)

	// Ping/Pongを管理するゴルーチンを起動
	go connection.MaintainWebSocketConnection(client, clients, sessions, logger)

	// Generate and store session ID, then send it back to the client
	err = database.GenerateAndStoreSessionID(r.Context(), client, rdb, logger)
	if err != nil {
		logger.Error("Failed to generate or store session ID", zap.Error(err))
	}

	// 交換の選択待ち中に再接続した場合は、本人にだけ選択肢を再送する
	session.Mu.Lock()
	if session.Engine != nil {
		if pm, ok := session.Engine.ExchangeOptionsFor(client.UserID); ok {
			broadcast.SendPrivateMessages(session, []game.PrivateMessage{pm}, logger)
		}
	}
	session.Mu.Unlock()
}
