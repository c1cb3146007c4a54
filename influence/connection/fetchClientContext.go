package connection

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"infserver/auth"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgrijalva/jwt-go"
)

// ClientContext はクライアントのセッション情報を保持するための構造体です。
type ClientContext struct {
	UserID   uint
	RoomID   uint
	Role     string // "Creator" または "Challenger"
	Nickname string
	Valid    bool
	Claims   *models.MyClaims // JWTクレームを含む
}

// TokenValidation は接続リクエストのJWTを検証してクレームを返します。
func TokenValidation(r *http.Request, logger *zap.Logger) (*models.MyClaims, error) {
	tokenString := r.Header.Get("Authorization")
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}

	claims := &models.MyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return auth.JwtKey, nil
	})

	if err != nil || !token.Valid {
		logger.Error("Failed to validate token", zap.Error(err))
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	return claims, nil
}

// FetchClientContext はJWTとレコードから接続者の役割と入室先ルームを特定します。
// 複数ルームを持てるため、クエリパラメータroomIDで入室先を指定できます。
// 指定がない場合は自分の有効なルーム、なければ承認済みの申請先を使います。
func FetchClientContext(ctx context.Context, r *http.Request, db *gorm.DB, logger *zap.Logger) (*ClientContext, error) {
	claims, err := TokenValidation(r, logger)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		logger.Error("Failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("user fetch failed: %w", err)
	}

	if !user.HasRoom && !user.HasRequest {
		return nil, fmt.Errorf("user has no active room or request")
	}

	// 入室先ルームの指定（任意）
	var requestedRoomID uint
	if raw := r.URL.Query().Get("roomID"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid roomID parameter: %w", err)
		}
		requestedRoomID = uint(parsed)
	}

	// 作成者として入室できるルームを探す
	var gameRoom models.GameRoom
	creatorQuery := db.Where("user_id = ? AND game_state <> 'disabled'", claims.UserID)
	if requestedRoomID != 0 {
		creatorQuery = creatorQuery.Where("id = ?", requestedRoomID)
	}
	if err := creatorQuery.First(&gameRoom).Error; err == nil {
		return &ClientContext{
			UserID:   claims.UserID,
			RoomID:   gameRoom.ID,
			Role:     "Creator",
			Nickname: gameRoom.RoomCreator,
			Valid:    true,
			Claims:   claims,
		}, nil
	}

	// 承認済みの入室申請を探す
	var challenger models.Challenger
	challengerQuery := db.Where("user_id = ? AND status = 'accepted'", claims.UserID)
	if requestedRoomID != 0 {
		challengerQuery = challengerQuery.Where("game_room_id = ?", requestedRoomID)
	}
	if err := challengerQuery.First(&challenger).Error; err != nil {
		logger.Error("Failed to fetch challenger data", zap.Error(err))
		return nil, fmt.Errorf("no accessible room for user: %w", err)
	}

	return &ClientContext{
		UserID:   claims.UserID,
		RoomID:   challenger.GameRoomID,
		Role:     "Challenger",
		Nickname: challenger.ChallengerNickname,
		Valid:    true,
		Claims:   claims,
	}, nil
}
