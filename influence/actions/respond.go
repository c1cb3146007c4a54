package actions

import (
	"infserver/influence/game"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// handleResponse は決着待ち状態へのプレイヤー応答をエンジンへ渡します。
// 応答資格の判定はエンジン側の仕事なので、ここでは形を整えるだけです。
func handleResponse(session *models.Game, client *models.Client, msg map[string]interface{}, db *gorm.DB, logger *zap.Logger) {
	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.Engine == nil || session.Status != "in_progress" {
		sendErrorMessage(client, "Game is not in progress")
		return
	}

	responseType, ok := msg["responseType"].(string)
	if !ok {
		sendErrorMessage(client, "Invalid response type")
		return
	}

	resp := game.Response{Type: responseType}
	if role, ok := msg["role"].(string); ok {
		resp.Role = game.Role(role)
	}
	if cardFloat, ok := msg["cardIndex"].(float64); ok {
		resp.CardIndex = int(cardFloat)
	}
	if keepRaw, ok := msg["keep"].([]interface{}); ok {
		keep := make([]string, 0, len(keepRaw))
		for _, item := range keepRaw {
			if id, ok := item.(string); ok {
				keep = append(keep, id)
			}
		}
		resp.Keep = keep
	}

	res := session.Engine.Respond(client.UserID, resp)
	finishEngineCall(session, client, res, db, logger)
}
