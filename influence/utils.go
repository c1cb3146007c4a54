package influence

import (
	"math/rand"
	"time"
)

// 乱数生成器を作成する。山札のシャッフルに使用する
func CreateLocalRandGenerator() *rand.Rand {
	// 現在時刻をシードとして使用
	source := rand.NewSource(time.Now().UnixNano())
	return rand.New(source)
}
