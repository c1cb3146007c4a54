package game

import "fmt"

// アクション種別。ワイヤ上の表記と一致させています。
const (
	ActionIncome      = "income"
	ActionForeignAid  = "foreign_aid"
	ActionCoup        = "coup"
	ActionTax         = "tax"
	ActionAssassinate = "assassinate"
	ActionSteal       = "steal"
	ActionExchange    = "exchange"
)

// 診断コード。不正な要求はルール状態を変えず、コードだけを呼び出し元へ返します。
const (
	CodeOK                = "ok"
	CodeGameOver          = "game_over"
	CodeActionInFlight    = "action_in_flight"
	CodeUnknownAction     = "unknown_action"
	CodeUnknownPlayer     = "unknown_player"
	CodeMustCoup          = "must_coup"
	CodeInsufficientCoins = "insufficient_coins"
	CodeInvalidTarget     = "invalid_target"
	CodeNoPending         = "no_pending"
	CodeNotAResponder     = "not_a_responder"
	CodeNotYourDecision   = "not_your_decision"
	CodeInvalidResponse   = "invalid_response"
	CodeInvalidBlockRole  = "invalid_block_role"
	CodeInvalidCardIndex  = "invalid_card_index"
	CodeInvalidChoice     = "invalid_choice"
)

const (
	coupCost        = 7
	assassinateCost = 3
	mustCoupAt      = 10
)

// Result はエンジン呼び出し1回分の結果です。状態の変更はゲーム本体に
// 反映済みで、呼び出し元が視聴者ごとの投影をブロードキャストします。
type Result struct {
	Code    string
	Private []PrivateMessage
}

func (g *Game) result(code string) Result {
	res := Result{Code: code, Private: g.outbox}
	g.outbox = nil
	return res
}

// Initiate は手番プレイヤーの新しいアクションを受け付けます。手番の所有権は
// 呼び出し側が確認します。ここでは決着待ちの有無とゲーム終了、そして
// アクション自体のルールだけを検査します。
func (g *Game) Initiate(actorID uint, actionType string, targetID uint) Result {
	if g.GameOver {
		return g.result(CodeGameOver)
	}
	if g.Pending != nil {
		return g.result(CodeActionInFlight)
	}
	actor := g.playerByID(actorID)
	if actor == nil || !actor.Alive() {
		return g.result(CodeUnknownPlayer)
	}
	// 10コイン以上を抱えたプレイヤーはクーデター以外を選べません。
	if actor.Coins >= mustCoupAt && actionType != ActionCoup {
		g.appendLog(fmt.Sprintf("%s holds %d coins and must launch a coup.", actor.Nickname, actor.Coins))
		return g.result(CodeMustCoup)
	}

	switch actionType {
	case ActionIncome:
		actor.Coins++
		g.appendLog(fmt.Sprintf("%s takes income (+1 coin).", actor.Nickname))
		g.finishTurn()

	case ActionForeignAid:
		// +2は暫定付与。Dukeのブロックが成立すると取り消されます。
		actor.Coins += 2
		g.appendLog(fmt.Sprintf("%s requests foreign aid (+2 coins unless blocked).", actor.Nickname))
		g.Pending = &PendingForeignAidBlock{ActorID: actorID, Responders: g.respondersExcept(actorID)}

	case ActionCoup:
		if actor.Coins < coupCost {
			g.appendLog(fmt.Sprintf("%s cannot afford a coup.", actor.Nickname))
			return g.result(CodeInsufficientCoins)
		}
		target := g.livingTarget(targetID)
		if target == nil {
			g.appendLog(fmt.Sprintf("%s aimed a coup at an invalid target.", actor.Nickname))
			return g.result(CodeInvalidTarget)
		}
		actor.Coins -= coupCost
		g.appendLog(fmt.Sprintf("%s pays 7 coins and launches a coup against %s.", actor.Nickname, target.Nickname))
		g.forceLoss(target.ID, ReasonCoup, Continuation{Kind: ContEndTurn})

	case ActionTax:
		g.appendLog(fmt.Sprintf("%s claims Duke to collect tax.", actor.Nickname))
		g.Pending = &PendingTaxChallenge{ActorID: actorID, Responders: g.respondersExcept(actorID)}

	case ActionAssassinate:
		if actor.Coins < assassinateCost {
			g.appendLog(fmt.Sprintf("%s cannot afford an assassination.", actor.Nickname))
			return g.result(CodeInsufficientCoins)
		}
		target := g.livingTarget(targetID)
		if target == nil || target.ID == actorID {
			g.appendLog(fmt.Sprintf("%s aimed an assassination at an invalid target.", actor.Nickname))
			return g.result(CodeInvalidTarget)
		}
		// 暗殺料は前払いで、主張が敗れても返金されません。
		actor.Coins -= assassinateCost
		g.appendLog(fmt.Sprintf("%s pays 3 coins and claims Assassin to assassinate %s.", actor.Nickname, target.Nickname))
		g.Pending = &PendingAssassinateChallenge{ActorID: actorID, TargetID: target.ID, Responders: g.respondersExcept(actorID)}

	case ActionSteal:
		target := g.livingTarget(targetID)
		if target == nil || target.ID == actorID {
			g.appendLog(fmt.Sprintf("%s aimed a steal at an invalid target.", actor.Nickname))
			return g.result(CodeInvalidTarget)
		}
		g.appendLog(fmt.Sprintf("%s claims Captain to steal from %s.", actor.Nickname, target.Nickname))
		g.Pending = &PendingStealChallenge{ActorID: actorID, TargetID: target.ID, Responders: g.respondersExcept(actorID)}

	case ActionExchange:
		g.appendLog(fmt.Sprintf("%s claims Ambassador to exchange cards.", actor.Nickname))
		g.Pending = &PendingExchangeChallenge{ActorID: actorID, Responders: g.respondersExcept(actorID)}

	default:
		g.appendLog(fmt.Sprintf("%s attempted an unknown action.", actor.Nickname))
		return g.result(CodeUnknownAction)
	}
	return g.result(CodeOK)
}

// livingTarget は生存しているプレイヤーを返します。見つからない、
// または脱落済みの場合は nil です。
func (g *Game) livingTarget(id uint) *Player {
	t := g.playerByID(id)
	if t == nil || !t.Alive() {
		return nil
	}
	return t
}
