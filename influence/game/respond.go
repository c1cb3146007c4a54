package game

import "fmt"

// 応答種別。ワイヤ上の表記と一致させています。
const (
	ResponsePass           = "pass"
	ResponseChallenge      = "challenge"
	ResponseBlock          = "block"
	ResponseLoseInfluence  = "loseInfluence"
	ResponseExchangeChoice = "exchangeChoice"
)

// Response は決着待ち状態へのプレイヤー応答です。種別ごとに使う
// フィールドが決まっています。
type Response struct {
	Type      string
	Role      Role     // block のとき主張する役職
	CardIndex int      // loseInfluence のとき公開するスロット
	Keep      []string // exchangeChoice のとき残す選択肢ID
}

// Respond は決着待ち状態へのプレイヤー応答を処理します。応答資格のない
// プレイヤーや場違いな応答種別は状態を変えずに無視されます。
func (g *Game) Respond(playerID uint, resp Response) Result {
	if g.GameOver {
		return g.result(CodeGameOver)
	}
	switch pending := g.Pending.(type) {
	case *PendingLoseInfluence:
		return g.respondLoseInfluence(pending, playerID, resp)
	case *PendingTaxChallenge:
		return g.respondTaxChallenge(pending, playerID, resp)
	case *PendingForeignAidBlock:
		return g.respondForeignAidBlock(pending, playerID, resp)
	case *PendingForeignAidBlockChallenge:
		return g.respondForeignAidBlockChallenge(pending, playerID, resp)
	case *PendingAssassinateChallenge:
		return g.respondAssassinateChallenge(pending, playerID, resp)
	case *PendingAssassinateBlock:
		return g.respondAssassinateBlock(pending, playerID, resp)
	case *PendingAssassinateBlockChallenge:
		return g.respondAssassinateBlockChallenge(pending, playerID, resp)
	case *PendingStealChallenge:
		return g.respondStealChallenge(pending, playerID, resp)
	case *PendingStealBlock:
		return g.respondStealBlock(pending, playerID, resp)
	case *PendingStealBlockChallenge:
		return g.respondStealBlockChallenge(pending, playerID, resp)
	case *PendingExchangeChallenge:
		return g.respondExchangeChallenge(pending, playerID, resp)
	case *PendingExchangeChoice:
		return g.respondExchangeChoice(pending, playerID, resp)
	default:
		return g.result(CodeNoPending)
	}
}

// forceLoss は対象を強制公開の決着待ちに置きます。対象に未公開カードが
// 残っていない場合は選ぶ余地がないため、そのまま継続処理へ進みます。
func (g *Game) forceLoss(playerID uint, reason string, cont Continuation) {
	p := g.playerByID(playerID)
	if p == nil || !p.Alive() {
		g.Pending = nil
		g.runContinuation(cont)
		return
	}
	g.Pending = &PendingLoseInfluence{PlayerID: playerID, Reason: reason, Continuation: cont}
	g.appendLog(fmt.Sprintf("%s must give up an influence.", p.Nickname))
}

// settleChallenge は役職主張への異議を裁きます。主張者が役職を持っていれば
// 公示と引き直しを行って true を返します。
func (g *Game) settleChallenge(claimantID, challengerID uint, role Role) bool {
	claimant := g.playerByID(claimantID)
	challenger := g.playerByID(challengerID)
	g.appendLog(fmt.Sprintf("%s challenges %s's %s claim.", challenger.Nickname, claimant.Nickname, role))
	if g.revealAndRedraw(claimantID, role) {
		g.appendLog(fmt.Sprintf("%s reveals %s, proves the claim and draws a replacement.", claimant.Nickname, role))
		return true
	}
	g.appendLog(fmt.Sprintf("%s cannot show %s. The claim fails.", claimant.Nickname, role))
	return false
}

// runContinuation は強制公開の解決後にフローを再開します。
// 継続は純データで、ディスパッチはここが唯一の地点です。
func (g *Game) runContinuation(c Continuation) {
	switch c.Kind {
	case ContAssassinateOpenBlock:
		g.openAssassinateBlock(c.ActorID, c.TargetID)
	case ContAssassinateBlockStands:
		g.appendLog("The Contessa block stands. The assassination is averted.")
		g.finishTurn()
	case ContAssassinateForceTargetLoss:
		g.forceAssassination(c.ActorID, c.TargetID)
	case ContEndTurnAfterAssassination:
		g.finishTurn()
	case ContStealOpenBlock:
		g.openStealBlock(c.ActorID, c.TargetID)
	case ContStealApply:
		g.applySteal(c.ActorID, c.TargetID)
		g.finishTurn()
	case ContStealBlockStands:
		g.appendLog("The block stands. The steal is stopped.")
		g.finishTurn()
	case ContStealApplyAfterBlockFail:
		g.applySteal(c.ActorID, c.TargetID)
		g.finishTurn()
	case ContExchangeStartChoice:
		g.startExchangeChoice(c.ActorID)
	default:
		g.finishTurn()
	}
}

func (g *Game) respondLoseInfluence(p *PendingLoseInfluence, playerID uint, resp Response) Result {
	if playerID != p.PlayerID {
		return g.result(CodeNotYourDecision)
	}
	if resp.Type != ResponseLoseInfluence {
		return g.result(CodeInvalidResponse)
	}
	if !g.loseInfluence(playerID, resp.CardIndex) {
		return g.result(CodeInvalidCardIndex)
	}
	cont := p.Continuation
	g.Pending = nil
	g.runContinuation(cont)
	return g.result(CodeOK)
}

func (g *Game) respondTaxChallenge(p *PendingTaxChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.applyTax(p.ActorID)
			g.finishTurn()
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.ActorID, playerID, RoleDuke) {
			g.applyTax(p.ActorID)
			g.forceLoss(playerID, ReasonLostChallenge, Continuation{Kind: ContEndTurn})
		} else {
			g.forceLoss(p.ActorID, ReasonFailedClaim, Continuation{Kind: ContEndTurn})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) applyTax(actorID uint) {
	actor := g.playerByID(actorID)
	actor.Coins += 3
	g.appendLog(fmt.Sprintf("%s collects 3 coins of tax.", actor.Nickname))
}

func (g *Game) respondForeignAidBlock(p *PendingForeignAidBlock, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			actor := g.playerByID(p.ActorID)
			g.appendLog(fmt.Sprintf("No one blocks. %s keeps the foreign aid.", actor.Nickname))
			g.finishTurn()
		}
		return g.result(CodeOK)
	case ResponseBlock:
		// 海外援助をブロックできる主張はDukeだけです。
		if resp.Role != RoleDuke {
			return g.result(CodeInvalidBlockRole)
		}
		blocker := g.playerByID(playerID)
		g.appendLog(fmt.Sprintf("%s claims Duke to block the foreign aid.", blocker.Nickname))
		g.Pending = &PendingForeignAidBlockChallenge{
			ActorID:    p.ActorID,
			BlockerID:  playerID,
			Responders: g.respondersExcept(playerID),
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) respondForeignAidBlockChallenge(p *PendingForeignAidBlockChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.revertForeignAid(p.ActorID)
			g.finishTurn()
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.BlockerID, playerID, RoleDuke) {
			// ブロック成立。暫定の+2を取り消してから異議者が代償を払います。
			g.revertForeignAid(p.ActorID)
			g.forceLoss(playerID, ReasonLostChallenge, Continuation{Kind: ContEndTurn})
		} else {
			// ブロック不成立。援助は手元に残ったままです。
			g.forceLoss(p.BlockerID, ReasonFailedClaim, Continuation{Kind: ContEndTurn})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) revertForeignAid(actorID uint) {
	actor := g.playerByID(actorID)
	actor.Coins -= 2
	g.appendLog(fmt.Sprintf("The block stands. %s returns the 2 coins of foreign aid.", actor.Nickname))
}

func (g *Game) respondAssassinateChallenge(p *PendingAssassinateChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.openAssassinateBlock(p.ActorID, p.TargetID)
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.ActorID, playerID, RoleAssassin) {
			cont := Continuation{Kind: ContAssassinateOpenBlock, ActorID: p.ActorID, TargetID: p.TargetID}
			if playerID == p.TargetID {
				// 標的自身が異議に敗れた場合、ブロックの機会はもうありません。
				cont = Continuation{Kind: ContAssassinateForceTargetLoss, ActorID: p.ActorID, TargetID: p.TargetID}
			}
			g.forceLoss(playerID, ReasonLostChallenge, cont)
		} else {
			g.forceLoss(p.ActorID, ReasonFailedClaim, Continuation{Kind: ContEndTurn})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

// openAssassinateBlock は標的本人だけにContessaブロックの窓を開きます。
func (g *Game) openAssassinateBlock(actorID, targetID uint) {
	target := g.playerByID(targetID)
	if target == nil || !target.Alive() {
		g.finishTurn()
		return
	}
	g.Pending = &PendingAssassinateBlock{ActorID: actorID, TargetID: targetID}
	g.appendLog(fmt.Sprintf("%s may block the assassination by claiming Contessa.", target.Nickname))
}

func (g *Game) forceAssassination(actorID, targetID uint) {
	g.forceLoss(targetID, ReasonAssassination, Continuation{Kind: ContEndTurnAfterAssassination, TargetID: targetID})
}

func (g *Game) respondAssassinateBlock(p *PendingAssassinateBlock, playerID uint, resp Response) Result {
	if playerID != p.TargetID {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		target := g.playerByID(p.TargetID)
		g.appendLog(fmt.Sprintf("%s does not block the assassination.", target.Nickname))
		g.forceAssassination(p.ActorID, p.TargetID)
		return g.result(CodeOK)
	case ResponseBlock:
		if resp.Role != RoleContessa {
			return g.result(CodeInvalidBlockRole)
		}
		target := g.playerByID(p.TargetID)
		g.appendLog(fmt.Sprintf("%s claims Contessa to block the assassination.", target.Nickname))
		g.Pending = &PendingAssassinateBlockChallenge{
			ActorID:    p.ActorID,
			TargetID:   p.TargetID,
			Responders: g.respondersExcept(p.TargetID),
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) respondAssassinateBlockChallenge(p *PendingAssassinateBlockChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.appendLog("No one challenges. The Contessa block stands and the assassination is averted.")
			g.finishTurn()
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.TargetID, playerID, RoleContessa) {
			g.forceLoss(playerID, ReasonLostChallenge, Continuation{Kind: ContAssassinateBlockStands})
		} else {
			// ブロックに失敗した標的は、その代償と暗殺の両方でカードを失います。
			g.forceLoss(p.TargetID, ReasonFailedClaim,
				Continuation{Kind: ContAssassinateForceTargetLoss, ActorID: p.ActorID, TargetID: p.TargetID})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) respondStealChallenge(p *PendingStealChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.openStealBlock(p.ActorID, p.TargetID)
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.ActorID, playerID, RoleCaptain) {
			cont := Continuation{Kind: ContStealOpenBlock, ActorID: p.ActorID, TargetID: p.TargetID}
			if playerID == p.TargetID {
				// 標的自身が異議に敗れた場合、ブロックの機会はなく強奪が成立します。
				cont = Continuation{Kind: ContStealApply, ActorID: p.ActorID, TargetID: p.TargetID}
			}
			g.forceLoss(playerID, ReasonLostChallenge, cont)
		} else {
			g.forceLoss(p.ActorID, ReasonFailedClaim, Continuation{Kind: ContEndTurn})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

// openStealBlock は標的本人だけに強奪ブロックの窓を開きます。
func (g *Game) openStealBlock(actorID, targetID uint) {
	target := g.playerByID(targetID)
	if target == nil || !target.Alive() {
		g.finishTurn()
		return
	}
	g.Pending = &PendingStealBlock{ActorID: actorID, TargetID: targetID}
	g.appendLog(fmt.Sprintf("%s may block the steal by claiming Captain or Ambassador.", target.Nickname))
}

// applySteal はコインを移動します。移動量は標的の残額と2の小さい方です。
func (g *Game) applySteal(actorID, targetID uint) {
	actor := g.playerByID(actorID)
	target := g.playerByID(targetID)
	if actor == nil || target == nil || !target.Alive() {
		// 脱落したプレイヤーのコインは凍結されたままです。
		g.appendLog("The steal comes to nothing.")
		return
	}
	amount := 2
	if target.Coins < amount {
		amount = target.Coins
	}
	target.Coins -= amount
	actor.Coins += amount
	g.appendLog(fmt.Sprintf("%s steals %d coins from %s.", actor.Nickname, amount, target.Nickname))
}

func (g *Game) respondStealBlock(p *PendingStealBlock, playerID uint, resp Response) Result {
	if playerID != p.TargetID {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		target := g.playerByID(p.TargetID)
		g.appendLog(fmt.Sprintf("%s does not block the steal.", target.Nickname))
		g.applySteal(p.ActorID, p.TargetID)
		g.finishTurn()
		return g.result(CodeOK)
	case ResponseBlock:
		if resp.Role != RoleCaptain && resp.Role != RoleAmbassador {
			return g.result(CodeInvalidBlockRole)
		}
		target := g.playerByID(p.TargetID)
		g.appendLog(fmt.Sprintf("%s claims %s to block the steal.", target.Nickname, resp.Role))
		g.Pending = &PendingStealBlockChallenge{
			ActorID:    p.ActorID,
			TargetID:   p.TargetID,
			BlockRole:  resp.Role,
			Responders: g.respondersExcept(p.TargetID),
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) respondStealBlockChallenge(p *PendingStealBlockChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.appendLog("No one challenges. The block stands and the steal is stopped.")
			g.finishTurn()
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.TargetID, playerID, p.BlockRole) {
			g.forceLoss(playerID, ReasonLostChallenge, Continuation{Kind: ContStealBlockStands})
		} else {
			g.forceLoss(p.TargetID, ReasonFailedClaim,
				Continuation{Kind: ContStealApplyAfterBlockFail, ActorID: p.ActorID, TargetID: p.TargetID})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}

func (g *Game) respondExchangeChallenge(p *PendingExchangeChallenge, playerID uint, resp Response) Result {
	if _, ok := p.Responders[playerID]; !ok {
		return g.result(CodeNotAResponder)
	}
	switch resp.Type {
	case ResponsePass:
		p.Responders[playerID] = ResponderPassed
		if p.Responders.allPassed() {
			g.startExchangeChoice(p.ActorID)
		}
		return g.result(CodeOK)
	case ResponseChallenge:
		p.Responders[playerID] = ResponderChallenged
		if g.settleChallenge(p.ActorID, playerID, RoleAmbassador) {
			g.forceLoss(playerID, ReasonLostChallenge,
				Continuation{Kind: ContExchangeStartChoice, ActorID: p.ActorID})
		} else {
			g.forceLoss(p.ActorID, ReasonFailedClaim, Continuation{Kind: ContEndTurn})
		}
		return g.result(CodeOK)
	default:
		return g.result(CodeInvalidResponse)
	}
}
