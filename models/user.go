package models

import (
	"gorm.io/gorm"
)

// User モデルの定義
type User struct {
	gorm.Model
	SubscriptionStatus string `gorm:"not null"`           // "free" または "paid"
	ValidRoomCount     int    `gorm:"not null;default:0"` // 有効なルームの数
	ValidRequestCount  int    `gorm:"not null;default:0"` // 有効な入室申請の数
	HasRoom            bool   `gorm:"not null;default:false"`
	HasRequest         bool   `gorm:"not null;default:false"`
}
