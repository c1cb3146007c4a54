package game

import (
	"fmt"

	"github.com/google/uuid"
)

// startExchangeChoice はAmbassador主張の成立後に交換の選択肢を組み立てます。
// 選択肢リストはアクター本人への秘匿メッセージとしてだけ送られ、
// 公開状態には残す枚数と選択肢の数しか現れません。
func (g *Game) startExchangeChoice(actorID uint) {
	actor := g.playerByID(actorID)
	if actor == nil || !actor.Alive() {
		// 解決の途中で全カードを失っていた場合、交換できるものがありません。
		g.appendLog("There is nothing left to exchange.")
		g.finishTurn()
		return
	}

	slots := actor.unrevealedIndexes()
	keepCount := len(slots)
	options := make([]ExchangeOption, 0, keepCount+2)
	for _, idx := range slots {
		options = append(options, ExchangeOption{ID: uuid.New().String(), Role: actor.Influences[idx].Role})
	}
	for i := 0; i < 2; i++ {
		options = append(options, ExchangeOption{ID: uuid.New().String(), Role: g.drawOne()})
	}

	g.exchangeOptions[actorID] = options
	g.Pending = &PendingExchangeChoice{ActorID: actorID, KeepCount: keepCount, OptionCount: len(options)}
	g.appendLog(fmt.Sprintf("%s draws 2 cards and chooses %d of %d to keep.", actor.Nickname, keepCount, len(options)))
	g.queuePrivate(g.exchangeOptionsMessage(actorID, keepCount))
}

func (g *Game) exchangeOptionsMessage(actorID uint, keepCount int) PrivateMessage {
	return PrivateMessage{
		PlayerID: actorID,
		Kind:     PrivateKindExchangeOptions,
		Payload: ExchangeOptionsPayload{
			Options:   g.exchangeOptions[actorID],
			KeepCount: keepCount,
		},
	}
}

// ExchangeOptionsFor は保留中の交換選択肢を返します。再接続したアクターへの
// 再送に使います。本人の選択待ちでなければ何も返しません。
func (g *Game) ExchangeOptionsFor(playerID uint) (PrivateMessage, bool) {
	choice, ok := g.Pending.(*PendingExchangeChoice)
	if !ok || choice.ActorID != playerID {
		return PrivateMessage{}, false
	}
	if _, ok := g.exchangeOptions[playerID]; !ok {
		return PrivateMessage{}, false
	}
	return g.exchangeOptionsMessage(playerID, choice.KeepCount), true
}

func (g *Game) respondExchangeChoice(p *PendingExchangeChoice, playerID uint, resp Response) Result {
	if playerID != p.ActorID {
		return g.result(CodeNotYourDecision)
	}
	if resp.Type != ResponseExchangeChoice {
		return g.result(CodeInvalidResponse)
	}

	options := g.exchangeOptions[p.ActorID]
	chosen := make(map[string]bool)
	for _, id := range resp.Keep {
		chosen[id] = true
	}
	// 重複IDは1つにまとまるので、既知のIDがちょうどKeepCount個
	// 残っていなければ選択は拒否されます。
	valid := 0
	for _, opt := range options {
		if chosen[opt.ID] {
			valid++
		}
	}
	if len(chosen) != p.KeepCount || valid != p.KeepCount {
		return g.result(CodeInvalidChoice)
	}

	actor := g.playerByID(p.ActorID)
	kept := make([]Role, 0, p.KeepCount)
	returned := make([]Role, 0, len(options)-p.KeepCount)
	for _, opt := range options {
		if chosen[opt.ID] {
			kept = append(kept, opt.Role)
		} else {
			returned = append(returned, opt.Role)
		}
	}

	// 残した役職を未公開スロットへスロット順に納め、余りは山札へ戻します。
	for i, idx := range actor.unrevealedIndexes() {
		actor.Influences[idx].Role = kept[i]
	}
	g.returnToDeck(returned...)
	delete(g.exchangeOptions, p.ActorID)
	g.appendLog(fmt.Sprintf("%s completes the exchange and returns %d cards to the deck.", actor.Nickname, len(returned)))
	g.finishTurn()
	return g.result(CodeOK)
}
