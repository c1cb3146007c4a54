package models

import (
	"sync"

	"github.com/gorilla/websocket"

	"infserver/influence/game"
)

// Websocketクライアントを定義
type Client struct {
	Conn     *websocket.Conn
	UserID   uint   // JWTから抽出したユーザーID
	RoomID   uint
	Role     string // "Creator" または "Challenger"
	Nickname string

	writeMu sync.Mutex
}

// WriteJSON は同一コネクションへの書き込みを直列化します。
// 読み取りゴルーチンとPingゴルーチンの両方が書き込むため必須です。
func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Ping はPingフレームを送信します。
func (c *Client) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// 各ルームのライブセッション。ルール状態はEngineだけが持ちます。
// エンジン呼び出しと席・接続の変更はMuで直列化します。
type Game struct {
	ID                  uint
	Engine              *game.Game
	SeatOrder           []uint          // 入室順。そのままゲームの手番順になる
	Nicknames           map[uint]string // キー: Player ID
	Clients             map[uint]*Client
	PlayersOnlineStatus map[uint]bool // キー: Player ID, 値: オンライン状態
	Status              string        // "waiting", "in_progress", "finished", "closed"
	RetryRequests       map[uint]bool // キー: Player ID, 値: 再戦リクエストの有無
	Mu                  sync.Mutex
}

// Seats は入室順のままエンジンへ渡す席リストを作ります。
func (g *Game) Seats() []game.Seat {
	seats := make([]game.Seat, 0, len(g.SeatOrder))
	for _, id := range g.SeatOrder {
		seats = append(seats, game.Seat{UserID: id, Nickname: g.Nicknames[id]})
	}
	return seats
}

// HasSeat は指定ユーザーが着席済みかどうかを返します。
func (g *Game) HasSeat(userID uint) bool {
	for _, id := range g.SeatOrder {
		if id == userID {
			return true
		}
	}
	return false
}

// GameSessions は進行中の全ルームセッションを保持します。マップの出し入れは
// ここのロックで守り、各セッション内の進行はそれぞれのMuで守ります。
type GameSessions struct {
	mu    sync.RWMutex
	rooms map[uint]*Game
}

func NewGameSessions() *GameSessions {
	return &GameSessions{rooms: make(map[uint]*Game)}
}

func (s *GameSessions) Load(roomID uint) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.rooms[roomID]
	return session, ok
}

// LoadOrStore は既存セッションを返すか、buildで作った新規セッションを登録します。
func (s *GameSessions) LoadOrStore(roomID uint, build func() *Game) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.rooms[roomID]; ok {
		return session, true
	}
	session := build()
	s.rooms[roomID] = session
	return session, false
}

func (s *GameSessions) Delete(roomID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

// Range はスナップショットを順に訪問します。fnがfalseを返すと中断します。
func (s *GameSessions) Range(fn func(roomID uint, session *Game) bool) {
	s.mu.RLock()
	snapshot := make(map[uint]*Game, len(s.rooms))
	for id, session := range s.rooms {
		snapshot[id] = session
	}
	s.mu.RUnlock()
	for id, session := range snapshot {
		if !fn(id, session) {
			return
		}
	}
}

// ClientList は接続中の全クライアントを保持します。
type ClientList struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

func NewClientList() *ClientList {
	return &ClientList{clients: make(map[*Client]bool)}
}

func (l *ClientList) Add(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clients[c] = true
}

func (l *ClientList) Remove(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, c)
}

// Each は登録済みクライアントのスナップショットを順に訪問します。
func (l *ClientList) Each(fn func(c *Client)) {
	l.mu.Lock()
	snapshot := make([]*Client, 0, len(l.clients))
	for c := range l.clients {
		snapshot = append(snapshot, c)
	}
	l.mu.Unlock()
	for _, c := range snapshot {
		fn(c)
	}
}
