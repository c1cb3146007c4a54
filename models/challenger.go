package models

import (
	"gorm.io/gorm"
)

type Challenger struct {
	gorm.Model         // gormのデフォルト属性（ID, CreatedAt, UpdatedAt, DeletedAt）を追加
	UserID             uint     `gorm:"not null"`
	GameRoomID         uint     `gorm:"index;not null"` // GameRoomテーブルのIDを参照
	ChallengerNickname string   `gorm:"not null"`       // 挑戦希望者のニックネーム
	Status             string   `gorm:"index;not null;default:'pending'"` // "pending", "accepted", "rejected", "disabled"
	GameRoom           GameRoom `gorm:"foreignKey:GameRoomID"`
}
