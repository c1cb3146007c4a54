package game

// Influence は1枚の影響力カード。公開されるまで役職は所有者だけが知っています。
type Influence struct {
	Role     Role
	Revealed bool
}

// Player はゲーム内の1プレイヤー。カードは常に2枚で、スロット順は固定です。
type Player struct {
	ID         uint
	Nickname   string
	Coins      int
	Influences [2]Influence
}

// Alive は未公開のカードが1枚でも残っているかを返します。
// 脱落したプレイヤーも公開済みカードとコインは保持したままです。
func (p *Player) Alive() bool {
	for i := range p.Influences {
		if !p.Influences[i].Revealed {
			return true
		}
	}
	return false
}

// unrevealedIndexes は未公開スロットの添字をスロット順で返します。
func (p *Player) unrevealedIndexes() []int {
	var idx []int
	for i := range p.Influences {
		if !p.Influences[i].Revealed {
			idx = append(idx, i)
		}
	}
	return idx
}

// Seat はゲーム作成時の参加者情報です。渡した順序がそのまま手番順になります。
type Seat struct {
	UserID   uint
	Nickname string
}

// ExchangeOption は交換の選択肢1件。IDは生成ごとの合成IDで、
// 手札のスロット位置とは対応しません。
type ExchangeOption struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// ExchangeOptionsPayload は交換の選択肢をアクター本人にだけ届けるペイロードです。
type ExchangeOptionsPayload struct {
	Options   []ExchangeOption `json:"options"`
	KeepCount int              `json:"keepCount"`
}

// PrivateMessage の種別。
const (
	PrivateKindExchangeOptions = "exchangeOptions"
)

// PrivateMessage は特定のプレイヤーにのみ送る秘匿ペイロードです。
// ブロードキャスト状態には決して含まれません。
type PrivateMessage struct {
	PlayerID uint
	Kind     string
	Payload  interface{}
}
