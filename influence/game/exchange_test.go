package game

import "testing"

func startExchange(t *testing.T, g *Game) *PendingExchangeChoice {
	t.Helper()
	if res := g.Initiate(1, ActionExchange, 0); res.Code != CodeOK {
		t.Fatalf("exchange rejected: %q", res.Code)
	}
	var last Result
	for _, p := range g.Players[1:] {
		if p.Alive() {
			last = g.Respond(p.ID, Response{Type: ResponsePass})
		}
	}
	choice, ok := g.Pending.(*PendingExchangeChoice)
	if !ok {
		t.Fatalf("pending = %T, want *PendingExchangeChoice", g.Pending)
	}
	// 選択肢はパスが出揃った応答の結果に秘匿メッセージとして載る
	if len(last.Private) != 1 || last.Private[0].PlayerID != 1 {
		t.Fatalf("private = %+v, want one message for player 1", last.Private)
	}
	if last.Private[0].Kind != PrivateKindExchangeOptions {
		t.Fatalf("kind = %q, want %q", last.Private[0].Kind, PrivateKindExchangeOptions)
	}
	return choice
}

func TestExchangeOffersCurrentPlusTwoDrawn(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	deckBefore := len(g.Deck)
	choice := startExchange(t, g)
	if choice.KeepCount != 2 || choice.OptionCount != 4 {
		t.Fatalf("keep/options = %d/%d, want 2/4", choice.KeepCount, choice.OptionCount)
	}
	if len(g.Deck) != deckBefore-2 {
		t.Fatalf("deck = %d, want %d", len(g.Deck), deckBefore-2)
	}
	options := g.exchangeOptions[1]
	if len(options) != 4 {
		t.Fatalf("stored options = %d, want 4", len(options))
	}
	// 先頭は手札の役職がスロット順に並ぶ
	if options[0].Role != RoleAmbassador || options[1].Role != RoleDuke {
		t.Fatalf("options = %v/%v, want Ambassador/Duke first", options[0].Role, options[1].Role)
	}
	seen := make(map[string]bool)
	for _, opt := range options {
		if opt.ID == "" || seen[opt.ID] {
			t.Fatalf("option ids must be unique and nonempty: %+v", options)
		}
		seen[opt.ID] = true
	}
}

func TestExchangeKeepCountFollowsUnrevealedCards(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Players[0].Influences[1].Revealed = true
	choice := startExchange(t, g)
	if choice.KeepCount != 1 || choice.OptionCount != 3 {
		t.Fatalf("keep/options = %d/%d, want 1/3", choice.KeepCount, choice.OptionCount)
	}
}

func TestExchangeChoiceValidation(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	startExchange(t, g)
	options := g.exchangeOptions[1]
	if res := g.Respond(2, Response{Type: ResponseExchangeChoice, Keep: []string{options[0].ID, options[1].ID}}); res.Code != CodeNotYourDecision {
		t.Fatalf("code = %q, want %q", res.Code, CodeNotYourDecision)
	}
	if res := g.Respond(1, Response{Type: ResponsePass}); res.Code != CodeInvalidResponse {
		t.Fatalf("code = %q, want %q", res.Code, CodeInvalidResponse)
	}
	if res := g.Respond(1, Response{Type: ResponseExchangeChoice, Keep: []string{options[0].ID}}); res.Code != CodeInvalidChoice {
		t.Fatalf("short keep: code = %q, want %q", res.Code, CodeInvalidChoice)
	}
	// 同じIDを2度挙げても1枚としか数えない
	if res := g.Respond(1, Response{Type: ResponseExchangeChoice, Keep: []string{options[0].ID, options[0].ID}}); res.Code != CodeInvalidChoice {
		t.Fatalf("duplicate keep: code = %q, want %q", res.Code, CodeInvalidChoice)
	}
	if res := g.Respond(1, Response{Type: ResponseExchangeChoice, Keep: []string{options[0].ID, "bogus"}}); res.Code != CodeInvalidChoice {
		t.Fatalf("unknown id: code = %q, want %q", res.Code, CodeInvalidChoice)
	}
	if _, ok := g.Pending.(*PendingExchangeChoice); !ok {
		t.Fatal("failed choices must not advance the game")
	}
}

func TestExchangeChoiceSwapsKeptRoles(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	deckBefore := len(g.Deck)
	startExchange(t, g)
	options := g.exchangeOptions[1]
	// 引いた2枚を残し、元の手札を山へ返す
	res := g.Respond(1, Response{Type: ResponseExchangeChoice, Keep: []string{options[2].ID, options[3].ID}})
	if res.Code != CodeOK {
		t.Fatalf("choice rejected: %q", res.Code)
	}
	if g.Players[0].Influences[0].Role != options[2].Role || g.Players[0].Influences[1].Role != options[3].Role {
		t.Fatalf("hand = %v/%v, want %v/%v",
			g.Players[0].Influences[0].Role, g.Players[0].Influences[1].Role, options[2].Role, options[3].Role)
	}
	if len(g.Deck) != deckBefore {
		t.Fatalf("deck = %d, want %d (2 drawn, 2 returned)", len(g.Deck), deckBefore)
	}
	if len(g.exchangeOptions) != 0 {
		t.Fatal("resolved exchange must discard the secret option list")
	}
	if g.Pending != nil || g.CurrentPlayer().ID != 2 {
		t.Fatal("exchange must resolve and pass the turn")
	}
}

func TestExchangeChallengeBusted(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleDuke, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionExchange, 0)
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 1 || pending.Reason != ReasonFailedClaim {
		t.Fatalf("pending = %+v", g.Pending)
	}
	g.Respond(1, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	// 交換は起こらず手番が渡る
	if len(g.exchangeOptions) != 0 {
		t.Fatal("a failed claim must not generate options")
	}
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}

func TestExchangeChallengeProvenThenChoice(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	g.Initiate(1, ActionExchange, 0)
	g.Respond(2, Response{Type: ResponseChallenge})
	pending, ok := g.Pending.(*PendingLoseInfluence)
	if !ok || pending.PlayerID != 2 || pending.Reason != ReasonLostChallenge {
		t.Fatalf("pending = %+v", g.Pending)
	}
	if pending.Continuation.Kind != ContExchangeStartChoice {
		t.Fatalf("continuation = %v", pending.Continuation.Kind)
	}
	// 異議者の代償の支払いと同時に選択肢がアクターへ届く
	res := g.Respond(2, Response{Type: ResponseLoseInfluence, CardIndex: 0})
	if res.Code != CodeOK {
		t.Fatalf("loseInfluence rejected: %q", res.Code)
	}
	if len(res.Private) != 1 || res.Private[0].PlayerID != 1 {
		t.Fatalf("private = %+v, want options for player 1", res.Private)
	}
	choice, ok := g.Pending.(*PendingExchangeChoice)
	if !ok || choice.ActorID != 1 || choice.KeepCount != 2 {
		t.Fatalf("pending = %+v", g.Pending)
	}
}

func TestExchangeOptionsForResend(t *testing.T) {
	g := newTestGame(t, [2]Role{RoleAmbassador, RoleDuke}, [2]Role{RoleCaptain, RoleCaptain})
	startExchange(t, g)
	msg, ok := g.ExchangeOptionsFor(1)
	if !ok {
		t.Fatal("actor must be able to refetch pending options")
	}
	payload, ok := msg.Payload.(ExchangeOptionsPayload)
	if !ok || len(payload.Options) != 4 || payload.KeepCount != 2 {
		t.Fatalf("payload = %+v", msg.Payload)
	}
	if _, ok := g.ExchangeOptionsFor(2); ok {
		t.Fatal("only the actor may see the option list")
	}
	options := g.exchangeOptions[1]
	g.Respond(1, Response{Type: ResponseExchangeChoice, Keep: []string{options[0].ID, options[1].ID}})
	if _, ok := g.ExchangeOptionsFor(1); ok {
		t.Fatal("resolved exchanges have nothing to resend")
	}
}

func TestExchangeWithNoUnrevealedCards(t *testing.T) {
	g := newTestGame(t,
		[2]Role{RoleAmbassador, RoleDuke},
		[2]Role{RoleCaptain, RoleCaptain},
		[2]Role{RoleContessa, RoleContessa},
	)
	g.Players[0].Influences[0].Revealed = true
	g.Players[0].Influences[1].Revealed = true
	g.startExchangeChoice(1)
	if g.Pending != nil {
		t.Fatalf("pending = %+v, want none", g.Pending)
	}
	if g.CurrentPlayer().ID != 2 {
		t.Fatalf("current player = %d, want 2", g.CurrentPlayer().ID)
	}
}
