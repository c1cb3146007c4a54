package models

import (
	"time"

	"gorm.io/gorm"
)

// GameRoom モデルの定義
type GameRoom struct {
	gorm.Model
	UserID           uint   `gorm:"not null"` // 作成者のUser ID
	RoomCreator      string `gorm:"not null"` // 作成者のニックネーム
	GameState        string `gorm:"not null;default:'waiting'"` // "waiting", "in_progress", "finished", "disabled"
	UniqueToken      string `gorm:"unique;not null"`            // 招待URL用トークン
	MaxPlayers       int    `gorm:"not null;default:6"`         // 作成者を含めた最大参加人数（2〜6）
	StartTime        time.Time
	FinishTime       time.Time
	ChallengersCount int          `gorm:"default:0"`
	Challengers      []Challenger `gorm:"foreignKey:GameRoomID"`
}
