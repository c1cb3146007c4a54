package game

import "testing"

func TestTaxResolvesWhenAllPass(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleDuke, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	if res := g.Initiate(1, ActionTax, 0); res.Code != CodeOK {
		t.Fatalf("tax rejected: %q", res.Code)
	}
	if res := g.Respond(2, Response{Type: ResponsePass}); res.Code != CodeOK {
		t.Fatalf("pass rejected: %q", res.Code)
	}
	if g.Players[0].Coins != 2 {
		t.Fatal("tax must not apply before every responder passed")
	}
	if res := g.Respond(3, Response{Type: ResponsePass}); res.Code != CodeOK {
		t.Fatalf("pass rejected: %q", res.Code)
	}
	if g.Players[0].Coins != 5 {
		t.Fatalf("coins = %d, want 5", g.Players[0].Coins)
	}
	if g.Pending != nil {
		t.Fatal("resolved tax must clear the pending action")
	}
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}

func TestTaxChallengeAgainstRealDuke(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleAssassin}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionTax, 0)
	if res := g.Respond(2, Response{Type: ResponseChallenge}); res.Code != CodeOK {
		t.Fatalf("challenge rejected: %q", res.Code)
	}
	// 主張が証明されたので+3が入り、異議者が代償を払う
	if g.Players[0].Coins != 5 {
		t.Fatalf("coins = %d, want 5", g.Players[0].Coins)
	}
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok {
		t.Fatalf("pending = %T, want *PendingLoseInfluence", g.Pending)
	}
	if pending.PlayerID != 2 || pending.Reason != ReasonLostChallenge {
		t.Fatalf("pending = %+v", pending)
	}
	if res := g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0}); res.Code != CodeOK {
		t.Fatalf("loseInfluence rejected: %q", res.Code)
	}
	if !g.Players[1].Influences[0].Revealed {
		t.Fatal("challenger card not revealed")
	}
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}

func TestTaxChallengeAgainstBluff(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleAssassin}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionTax, 0)
	g.Respond(2, Response{Type: ResponseChallenge})
	if g.Players[0].Coins != 2 {
		t.Fatalf("coins = %d, want 2 (no tax on a failed claim)", g.Players[0].Coins)
	}
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok {
		t.Fatalf("pending = %T, want *PendingLoseInfluence", g.Pending)
	}
	if pending.PlayerID != 1 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestChallengeFromOutsiderIgnored(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionTax, 0)
	// アクター自身は自分の主張に応答できない
	if res := g.Respond(1, Response{Type: ResponseChallenge}); res.Code != CodeNotAResponder {
		t.Fatalf("code = %q, want %q", res.Code, CodeNotAResponder)
	}
	if res := g.Respond(42, Response{Type: ResponsePass}); res.Code != CodeNotAResponder {
		t.Fatalf("code = %q, want %q", res.Code, CodeNotAResponder)
	}
	if _, ok := g.Pending.(*PendingTaxChallenge); !ok {
		t.Fatal("pending must be unchanged")
	}
}

func TestPassedResponderMayStillChallenge(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleAssassin, RoleAssassin},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Initiate(1, ActionTax, 0)
	g.Respond(2, Response{Type: ResponsePass})
	// 全員がパスするまでは、パス済みでも異議へ切り替えられる
	if res := g.Respond(2, Response{Type: ResponseChallenge}); res.Code != CodeOK {
		t.Fatalf("late challenge rejected: %q", res.Code)
	}
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 1 {
		t.Fatalf("pending = %+v", g.Pending)
	}
}

func TestForeignAidUnblocked(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleDuke, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Initiate(1, ActionForeignAid, 0)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(3, Response{Type: ResponsePass})
	if g.Players[0].Coins != 4 {
		t.Fatalf("coins = %d, want 4", g.Players[0].Coins)
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("foreign aid must resolve and pass the turn")
	}
}

func TestForeignAidChallengeDuringBlockWindowIgnored(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionForeignAid, 0)
	// 海外援助そのものには異議を唱えられない
	if res := g.Respond(2, Response{Type: ResponseChallenge}); res.Code != CodeInvalidResponse {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidResponse)
	}
}

func TestForeignAidBlockStandsUnchallenged(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleDuke, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Initiate(1, ActionForeignAid, 0)
	if res := g.Respond(2, Response{Type: ResponseBlock, Role: RoleDuke}); res.Code != CodeOK {
		t.Fatalf("block rejected: %q", res.Code)
	}
	pending, ok := g.Pending.(*PendingForeignAidBlockChallenge)
	if !ok {
		t.Fatalf("pending = %T, want *PendingForeignAidBlockChallenge", g.Pending)
	}
	if pending.BlockerID != 2 {
		t.Fatalf("blocker = %d, want 2", pending.BlockerID)
	}
	// ブロッカー以外の全員（アクターを含む）が応答資格を持つ
	if _, ok := pending.Responders[1]; !ok {
		t.Fatal("actor must be able to challenge the block")
	}
	g.Respond(1, Response{Type: ResponsePass})
	g.Respond(3, Response{Type: ResponsePass})
	if g.Players[0].Coins != 2 {
		t.Fatalf("coins = %d, want 2 (aid reverted)", g.Players[0].Coins)
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("standing block must end the turn")
	}
}

func TestForeignAidBlockWithWrongRole(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionForeignAid, 0)
	if res := g.Respond(2, Response{Type: ResponseBlock, Role: RoleCaptain}); res.Code != CodeInvalidBlockRole {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidBlockRole)
	}
	if _, ok := g.Pending.(*PendingForeignAidBlock); !ok {
		t.Fatal("invalid block must not advance the stage")
	}
}

func TestForeignAidBlockChallengeProvenDuke(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleAssassin}, [2]Role{RoleDuke, RoleCaptain})
	g.Initiate(1, ActionForeignAid, 0)
	g.Respond(2, Response{Type: ResponseBlock, Role: RoleDuke})
	if res := g.Respond(1, Response{Type: ResponseChallenge}); res.Code != CodeOK {
		t.Fatalf("challenge rejected: %q", res.Code)
	}
	// Dukeが示されたのでブロック成立、+2は取り消し、異議者が代償を払う
	if g.Players[0].Coins != 2 {
		t.Fatalf("coins = %d, want 2", g.Players[0].Coins)
	}
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 1 {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(1, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}

func TestForeignAidBlockChallengeBusted(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleAssassin}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionForeignAid, 0)
	g.Respond(2, Response{Type: ResponseBlock, Role: RoleDuke})
	g.Respond(1, Response{Type: ResponseChallenge})
	// ブロックは不成立、援助は残り、ブロッカーが代償を払う
	if g.Players[0].Coins != 4 {
		t.Fatalf("coins = %d, want 4 (aid kept)", g.Players[0].Coins)
	}
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", g.Pending)
	}
}

func TestAssassinationUnchallengedUnblocked(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleAssassin, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Players[0].Coins = 3
	g.Initiate(1, ActionAssassinate, 3)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(3, Response{Type: ResponsePass})
	block, ok := g.Pending.(*PendingAssassinateBlock)
	if !ok {
		t.Fatalf("pending = %T, want *PendingAssassinateBlock", g.Pending)
	}
	if block.TargetID != 3 {
		t.Fatalf("block window target = %d, want 3", block.TargetID)
	}
	// 標的以外はブロック窓に応答できない
	if res := g.Respond(2, Response{Type: ResponsePass}); res.Code != CodeNotAResponder {
		t.Fatalf("code = %q, want %q", res.Code, CodeNotAResponder)
	}
	g.Respond(3, Response{Type: ResponsePass})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 3 || pending.Reason != ReasonAssassination {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(3, Response{Type: ResponseLoseInfluence, CardIndex: 1})
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("assassination must resolve and pass the turn")
	}
}

func TestContessaBlockStandsWhenProven(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleDuke}, [2]Role{RoleContessa, RoleCaptain})
	g.Players[0].Coins = 3
	g.Initiate(1, ActionAssassinate, 2)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(2, Response{Type: ResponseBlock, Role: RoleContessa})
	if res := g.Respond(1, Response{Type: ResponseChallenge}); res.Code != CodeOK {
		t.Fatalf("challenge rejected: %q", res.Code)
	}
	// Contessaが証明され、異議者（アクター）が代償を払う
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 1 {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContAssassinateBlockStands {
		t.Fatalf("continuation = %v", pending.Continuation.Kind)
	}
	g.Respond(1, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	// ブロックが立ち、標的は無傷のまま手番が終わる
	if g.Players[1].Influences[0].Revealed || g.Players[1].Influences[1].Revealed {
		t.Fatal("blocked assassination must not cost the target a card")
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("turn must pass after the block stands")
	}
}

func TestFailedContessaBlockEliminatesTarget(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Players[0].Coins = 3
	g.Initiate(1, ActionAssassinate, 2)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(2, Response{Type: ResponseBlock, Role: RoleContessa})
	g.Respond(1, Response{Type: ResponseChallenge})
	// ブロック失敗の代償
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	// 続けて暗殺そのものの代償
	pending, ok = g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 || pending.Reason != ReasonAssassination {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 1})
	if !g.GameOver || g.WinnerID != 1 {
		t.Fatalf("gameOver = %v winner = %d, want winner 1", g.GameOver, g.WinnerID)
	}
}

func TestTargetChallengeLossSkipsBlockWindow(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAssassin, RoleDuke}, [2]Role{RoleContessa, RoleCaptain})
	g.Players[0].Coins = 3
	g.Initiate(1, ActionAssassinate, 2)
	// 標的自身が異議を唱えて敗れる
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContAssassinateForceTargetLoss {
		t.Fatalf("continuation = %v, want force target loss", pending.Continuation.Kind)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	// ブロック窓は開かず、そのまま暗殺の代償へ
	next, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || next.Reason != ReasonAssassination {
		t.Fatalf("pending = %+v", g.Pending)
	}
}

func TestThirdPartyChallengeLossReopensBlockWindow(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleAssassin, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Players[0].Coins = 3
	g.Initiate(1, ActionAssassinate, 3)
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContAssassinateOpenBlock {
		t.Fatalf("continuation = %v, want open block", pending.Continuation.Kind)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	block, ok := g.Pending.(*PendingAssassinateBlock)
	if !ok || block.TargetID != 3 {
		t.Fatalf("pending = %+v, want block window for player 3", g.Pending)
	}
}

func TestStealTransfersUpToTwoCoins(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleCaptain, RoleDuke}, [2]Role{RoleContessa, RoleContessa})
	g.Players[1].Coins = 1
	g.Initiate(1, ActionSteal, 2)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(2, Response{Type: ResponsePass})
	if g.Players[0].Coins != 3 || g.Players[1].Coins != 0 {
		t.Fatalf("coins = %d/%d, want 3/0 (min(2, balance))", g.Players[0].Coins, g.Players[1].Coins)
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("steal must resolve and pass the turn")
	}
}

func TestStealBlockedByAmbassadorClaim(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleCaptain, RoleDuke},
		[2]Role{RoleAmbassador, RoleContessa},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Initiate(1, ActionSteal, 2)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(3, Response{Type: ResponsePass})
	if res := g.Respond(2, Response{Type: ResponseBlock, Role: RoleDuke}); res.Code != CodeInvalidBlockRole {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidBlockRole)
	}
	if res := g.Respond(2, Response{Type: ResponseBlock, Role: RoleAmbassador}); res.Code != CodeOK {
		t.Fatalf("block rejected: %q", res.Code)
	}
	pending, ok := g.Pending.(*PendingStealBlockChallenge)
	if !ok {
		t.Fatalf("pending = %T, want *PendingStealBlockChallenge", g.Pending)
	}
	if pending.BlockRole != RoleAmbassador {
		t.Fatalf("block role = %v, want Ambassador", pending.BlockRole)
	}
	// 異議が出ず、ブロック成立。コインは動かない
	g.Respond(1, Response{Type: ResponsePass})
	g.Respond(3, Response{Type: ResponsePass})
	if g.Players[0].Coins != 2 || g.Players[1].Coins != 2 {
		t.Fatalf("coins = %d/%d, want 2/2", g.Players[0].Coins, g.Players[1].Coins)
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("standing block must end the turn")
	}
}

func TestStealBlockChallengeBustedAppliesSteal(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleCaptain, RoleDuke}, [2]Role{RoleContessa, RoleContessa})
	g.Initiate(1, ActionSteal, 2)
	g.Respond(2, Response{Type: ResponsePass})
	g.Respond(2, Response{Type: ResponseBlock, Role: RoleCaptain})
	g.Respond(1, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContStealApplyAfterBlockFail {
		t.Fatalf("continuation = %v", pending.Continuation.Kind)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	if g.Players[0].Coins != 4 || g.Players[1].Coins != 0 {
		t.Fatalf("coins = %d/%d, want 4/0", g.Players[0].Coins, g.Players[1].Coins)
	}
}

func TestStealChallengeByTargetAppliesDirectly(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleCaptain, RoleDuke}, [2]Role{RoleContessa, RoleContessa})
	g.Initiate(1, ActionSteal, 2)
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContStealApply {
		t.Fatalf("continuation = %v, want steal apply", pending.Continuation.Kind)
	}
	g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 1})
	if g.Players[0].Coins != 4 || g.Players[1].Coins != 0 {
		t.Fatalf("coins = %d/%d, want 4/0", g.Players[0].Coins, g.Players[1].Coins)
	}
}

func TestStealChallengeBustedEndsTurn(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleContessa, RoleContessa})
	g.Initiate(1, ActionSteal, 2)
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 1 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(1, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	if g.Players[0].Coins != 2 || g.Players[1].Coins != 2 {
		t.Fatal("failed steal claim must not move coins")
	}
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}

func TestLoseInfluenceValidation(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Players[0].Coins = 7
	g.Initiate(1, ActionCoup, 2)
	// 本人以外の応答と場違いな応答種別は退けられる
	if res := g.Respond(1, Response{Type: ResponseLoseInfluence, CardIndex: 0}); res.Code != CodeNotYourDecision {
		t.Fatalf("code = %q, want %q", res.Code, CodeNotYourDecision)
	}
	if res := g.Respond(2, Response{Type: ResponsePass}); res.Code != CodeInvalidResponse {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidResponse)
	}
	if res := g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 5}); res.Code != CodeInvalidCardIndex {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidCardIndex)
	}
	// 失敗した応答はゲームを進めない
	if _, ok := g.Pending.(*PendingLoseInfluence); !ok {
		t.Fatal("pending must remain")
	}
	if res := g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 1}); res.Code != CodeOK {
		t.Fatalf("valid loseInfluence rejected: %q", res.Code)
	}
}

func TestRespondWithoutPending(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	if res := g.Respond(2, Response{Type: ResponsePass}); res.Code != CodeNoPending {
		t.Fatalf("code = %q, want %q", res.Code, CodeNoPending)
	}
}
