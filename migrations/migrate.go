package main

import (
	"fmt"

	"infserver/database"
	"infserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var logger *zap.Logger

func init() {
	var err error
	// Zapのロガーを設定
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// マイグレーションを実行する関数
func AutoMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(&models.User{}, &models.GameRoom{}, &models.Challenger{})
	if err != nil {
		panic("Error migrating tables: " + err.Error())
	} else {
		fmt.Println("User, GameRoom and Challenger tables migrated successfully")
	}
}

func main() {
	logger.Info("マイグレーションを開始します。")

	config, err := database.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}

	db, err := database.InitPostgreSQL(config, logger)
	if err != nil {
		logger.Fatal("データベースへの接続に失敗しました", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("SQLDBの取得に失敗しました", zap.Error(err))
		return
	}
	defer sqlDB.Close() // SQLDBを閉じる
	defer logger.Sync() // ロガーの終了処理

	// マイグレーションを実行
	AutoMigrateDB(db)
}
