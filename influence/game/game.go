package game

import (
	"fmt"
	"math/rand"
)

// ゲームログは直近の80件だけを保持します。
const logLimit = 80

// Game は1ルーム分の権威あるゲーム状態です。ルール状態はプロセスメモリの
// 外には出ません。呼び出しの直列化は外側のルームセッションが行います。
type Game struct {
	ID        uint
	Players   []*Player
	TurnIndex int
	Deck      []Role
	Pending   PendingAction
	Log       []string
	GameOver  bool
	WinnerID  uint

	// 交換の選択肢はプレイヤーIDごとに隠して保持します。
	// 公開状態の投影には決して含まれません。
	exchangeOptions map[uint][]ExchangeOption
	outbox          []PrivateMessage
	randGen         *rand.Rand
}

// NewGame は新規ゲームを生成します。seats の順序がそのまま手番順になります。
// プレイヤー構成が不正な場合だけエラーを返します（エンジン唯一の致命エラー）。
func NewGame(id uint, seats []Seat, randGen *rand.Rand) (*Game, error) {
	if len(seats) < 2 || len(seats) > 6 {
		return nil, fmt.Errorf("invalid player count: %d", len(seats))
	}
	seen := make(map[uint]bool, len(seats))
	for _, s := range seats {
		if s.UserID == 0 || seen[s.UserID] {
			return nil, fmt.Errorf("invalid player id: %d", s.UserID)
		}
		seen[s.UserID] = true
	}

	g := &Game{
		ID:              id,
		Deck:            freshDeck(randGen),
		exchangeOptions: make(map[uint][]ExchangeOption),
		randGen:         randGen,
	}
	for _, s := range seats {
		p := &Player{ID: s.UserID, Nickname: s.Nickname, Coins: 2}
		p.Influences[0] = Influence{Role: g.drawOne()}
		p.Influences[1] = Influence{Role: g.drawOne()}
		g.Players = append(g.Players, p)
	}
	// 最初の手番はランダムに決定。以降は参加順で巡回する。
	g.TurnIndex = randGen.Intn(len(g.Players))
	g.appendLog(fmt.Sprintf("The game begins with %d players.", len(g.Players)))
	g.appendLog(fmt.Sprintf("It is %s's turn.", g.CurrentPlayer().Nickname))
	return g, nil
}

// freshDeck は5役職×3枚の新しい山札をシャッフルして返します。
func freshDeck(randGen *rand.Rand) []Role {
	deck := make([]Role, 0, len(AllRoles)*copiesPerRole)
	for _, r := range AllRoles {
		for i := 0; i < copiesPerRole; i++ {
			deck = append(deck, r)
		}
	}
	randGen.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// drawOne は山札の先頭から1枚引きます。山札が尽きていた場合は
// 完全な新しい山札を用意してから引きます。
func (g *Game) drawOne() Role {
	if len(g.Deck) == 0 {
		g.Deck = freshDeck(g.randGen)
	}
	role := g.Deck[0]
	g.Deck = g.Deck[1:]
	return role
}

// returnToDeck はカードを山札へ戻し、山札全体をシャッフルし直します。
func (g *Game) returnToDeck(roles ...Role) {
	g.Deck = append(g.Deck, roles...)
	g.randGen.Shuffle(len(g.Deck), func(i, j int) { g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i] })
}

// revealAndRedraw は該当役職の未公開カードを山札へ戻し、同じスロットに
// 新しいカードを未公開のまま引き直します。未公開の該当カードが
// 無ければ false を返します（主張を証明できなかったことを意味する）。
func (g *Game) revealAndRedraw(playerID uint, role Role) bool {
	p := g.playerByID(playerID)
	if p == nil {
		return false
	}
	for i := range p.Influences {
		if !p.Influences[i].Revealed && p.Influences[i].Role == role {
			g.returnToDeck(role)
			p.Influences[i].Role = g.drawOne()
			return true
		}
	}
	return false
}

// loseInfluence は指定スロットの未公開カードを永久に公開します。
// スロットが不正、または公開済みの場合は何も変えずに false を返します。
func (g *Game) loseInfluence(playerID uint, cardIndex int) bool {
	p := g.playerByID(playerID)
	if p == nil || cardIndex < 0 || cardIndex >= len(p.Influences) {
		return false
	}
	card := &p.Influences[cardIndex]
	if card.Revealed {
		return false
	}
	card.Revealed = true
	g.appendLog(fmt.Sprintf("%s loses an influence and reveals %s.", p.Nickname, card.Role))
	if !p.Alive() {
		g.appendLog(fmt.Sprintf("%s has no influence left and is out of the game.", p.Nickname))
	}
	return true
}

func (g *Game) playerByID(id uint) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer は手番のプレイヤーを返します。
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.TurnIndex]
}

func (g *Game) aliveCount() int {
	count := 0
	for _, p := range g.Players {
		if p.Alive() {
			count++
		}
	}
	return count
}

// finishTurn は決着待ちを解消して手番を送ります。先に勝敗判定を行い、
// 生存者が1人になっていればそこでゲーム終了です。
func (g *Game) finishTurn() {
	g.Pending = nil
	if g.aliveCount() <= 1 {
		g.GameOver = true
		for _, p := range g.Players {
			if p.Alive() {
				g.WinnerID = p.ID
				g.appendLog(fmt.Sprintf("%s wins the game.", p.Nickname))
			}
		}
		return
	}
	for i := 1; i <= len(g.Players); i++ {
		idx := (g.TurnIndex + i) % len(g.Players)
		if g.Players[idx].Alive() {
			g.TurnIndex = idx
			break
		}
	}
	g.appendLog(fmt.Sprintf("It is %s's turn.", g.CurrentPlayer().Nickname))
}

// respondersExcept は指定IDを除く全生存者を pending 状態で並べた
// 応答セットを作ります。脱落者は最初から含まれません。
func (g *Game) respondersExcept(excluded ...uint) Responders {
	skip := make(map[uint]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	responders := make(Responders)
	for _, p := range g.Players {
		if p.Alive() && !skip[p.ID] {
			responders[p.ID] = ResponderPending
		}
	}
	return responders
}

func (g *Game) appendLog(line string) {
	g.Log = append(g.Log, line)
	if len(g.Log) > logLimit {
		g.Log = g.Log[len(g.Log)-logLimit:]
	}
}

func (g *Game) queuePrivate(msg PrivateMessage) {
	g.outbox = append(g.outbox, msg)
}
