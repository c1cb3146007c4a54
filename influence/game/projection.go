package game

// PublicInfluence は視聴者投影でのカード1枚です。未公開カードの役職は
// 所有者本人の投影にだけ入り、それ以外では nil になります。
// 文字列の伏せ字ではなく型で隠匿を強制します。
type PublicInfluence struct {
	Role     *Role `json:"role"`
	Revealed bool  `json:"revealed"`
}

// PublicPlayer は視聴者投影でのプレイヤー1人です。
type PublicPlayer struct {
	ID         uint              `json:"id"`
	Nickname   string            `json:"nickname"`
	Coins      int               `json:"coins"`
	Influences []PublicInfluence `json:"influences"`
	Alive      bool              `json:"alive"`
}

// PublicPending は決着待ち状態の公開できる事実だけを載せます。
// 交換の選択肢リストは決して含まれません。
type PublicPending struct {
	Stage       string `json:"stage"`
	ActorID     uint   `json:"actorId,omitempty"`
	TargetID    uint   `json:"targetId,omitempty"`
	PlayerID    uint   `json:"playerId,omitempty"`
	Reason      string `json:"reason,omitempty"`
	BlockerID   uint   `json:"blockerId,omitempty"`
	ClaimedRole Role   `json:"claimedRole,omitempty"`
	BlockRole   Role   `json:"blockRole,omitempty"`
	WaitingOn   []uint `json:"waitingOn,omitempty"`
	KeepCount   int    `json:"keepCount,omitempty"`
	OptionCount int    `json:"optionCount,omitempty"`
}

// ViewState は特定の視聴者向けに投影したゲーム全体の状態です。
type ViewState struct {
	GameID          uint           `json:"gameId"`
	Players         []PublicPlayer `json:"players"`
	CurrentPlayerID uint           `json:"currentPlayerId"`
	DeckCount       int            `json:"deckCount"`
	Pending         *PublicPending `json:"pending"`
	Log             []string       `json:"log"`
	GameOver        bool           `json:"gameOver"`
	WinnerID        uint           `json:"winnerId,omitempty"`
}

// ViewFor は視聴者1人分の投影を構築します。未公開カードの役職が所有者以外の
// 投影に現れることはありません。ゲーム終了後も同じです。
func (g *Game) ViewFor(viewerID uint) ViewState {
	players := make([]PublicPlayer, 0, len(g.Players))
	for _, p := range g.Players {
		pub := PublicPlayer{
			ID:       p.ID,
			Nickname: p.Nickname,
			Coins:    p.Coins,
			Alive:    p.Alive(),
		}
		for i := range p.Influences {
			card := p.Influences[i]
			pi := PublicInfluence{Revealed: card.Revealed}
			if card.Revealed || p.ID == viewerID {
				role := card.Role
				pi.Role = &role
			}
			pub.Influences = append(pub.Influences, pi)
		}
		players = append(players, pub)
	}

	return ViewState{
		GameID:          g.ID,
		Players:         players,
		CurrentPlayerID: g.CurrentPlayer().ID,
		DeckCount:       len(g.Deck),
		Pending:         g.publicPending(),
		Log:             append([]string(nil), g.Log...),
		GameOver:        g.GameOver,
		WinnerID:        g.WinnerID,
	}
}

func (g *Game) publicPending() *PublicPending {
	switch p := g.Pending.(type) {
	case *PendingLoseInfluence:
		return &PublicPending{
			Stage:     p.Stage(),
			PlayerID:  p.PlayerID,
			Reason:    p.Reason,
			WaitingOn: []uint{p.PlayerID},
		}
	case *PendingTaxChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			ClaimedRole: RoleDuke,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingForeignAidBlock:
		return &PublicPending{
			Stage:     p.Stage(),
			ActorID:   p.ActorID,
			WaitingOn: g.waitingOn(p.Responders),
		}
	case *PendingForeignAidBlockChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			BlockerID:   p.BlockerID,
			ClaimedRole: RoleDuke,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingAssassinateChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			TargetID:    p.TargetID,
			ClaimedRole: RoleAssassin,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingAssassinateBlock:
		return &PublicPending{
			Stage:     p.Stage(),
			ActorID:   p.ActorID,
			TargetID:  p.TargetID,
			WaitingOn: []uint{p.TargetID},
		}
	case *PendingAssassinateBlockChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			TargetID:    p.TargetID,
			BlockerID:   p.TargetID,
			ClaimedRole: RoleContessa,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingStealChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			TargetID:    p.TargetID,
			ClaimedRole: RoleCaptain,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingStealBlock:
		return &PublicPending{
			Stage:     p.Stage(),
			ActorID:   p.ActorID,
			TargetID:  p.TargetID,
			WaitingOn: []uint{p.TargetID},
		}
	case *PendingStealBlockChallenge:
		return &PublicPending{
			Stage:     p.Stage(),
			ActorID:   p.ActorID,
			TargetID:  p.TargetID,
			BlockerID: p.TargetID,
			BlockRole: p.BlockRole,
			WaitingOn: g.waitingOn(p.Responders),
		}
	case *PendingExchangeChallenge:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			ClaimedRole: RoleAmbassador,
			WaitingOn:   g.waitingOn(p.Responders),
		}
	case *PendingExchangeChoice:
		return &PublicPending{
			Stage:       p.Stage(),
			ActorID:     p.ActorID,
			WaitingOn:   []uint{p.ActorID},
			KeepCount:   p.KeepCount,
			OptionCount: p.OptionCount,
		}
	default:
		return nil
	}
}

// waitingOn はまだ応答していないプレイヤーIDを手番順で返します。
func (g *Game) waitingOn(r Responders) []uint {
	ids := make([]uint, 0, len(r))
	for _, p := range g.Players {
		if state, ok := r[p.ID]; ok && state == ResponderPending {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
