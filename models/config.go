package models

// Config はconfig.jsonから読み込むPostgreSQL接続設定です。
// Redisの接続情報は環境変数から取得するためここには含めません。
type Config struct {
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`
}
