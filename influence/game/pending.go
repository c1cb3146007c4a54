package game

// ResponderState は応答資格のあるプレイヤー1人の状態です。
type ResponderState string

const (
	ResponderPending    ResponderState = "pending"
	ResponderPassed     ResponderState = "passed"
	ResponderChallenged ResponderState = "challenged"
)

// Responders は応答資格のあるプレイヤーIDごとの応答状態です。
// ここに載っていないプレイヤーの応答は無視されます。
type Responders map[uint]ResponderState

func (r Responders) allPassed() bool {
	for _, state := range r {
		if state != ResponderPassed {
			return false
		}
	}
	return true
}

// ContinuationKind は継続の種別です。
type ContinuationKind string

const (
	ContEndTurn                    ContinuationKind = "end_turn"
	ContAssassinateOpenBlock       ContinuationKind = "assassinate_open_block"
	ContAssassinateBlockStands     ContinuationKind = "assassinate_block_stands"
	ContAssassinateForceTargetLoss ContinuationKind = "assassinate_force_target_loss"
	ContEndTurnAfterAssassination  ContinuationKind = "end_turn_after_assassination"
	ContStealOpenBlock             ContinuationKind = "steal_open_block"
	ContStealApply                 ContinuationKind = "steal_apply"
	ContStealBlockStands           ContinuationKind = "steal_block_stands"
	ContStealApplyAfterBlockFail   ContinuationKind = "steal_apply_after_block_fail"
	ContExchangeStartChoice        ContinuationKind = "exchange_start_choice"
)

// Continuation は強制公開の解決後にフローを再開するための純データです。
// クロージャは持たず、必要最小限のIDだけを運びます。
type Continuation struct {
	Kind     ContinuationKind
	ActorID  uint
	TargetID uint
}

// 強制公開の理由。
const (
	ReasonCoup          = "coup"
	ReasonAssassination = "assassination"
	ReasonLostChallenge = "lost_challenge"
	ReasonFailedClaim   = "failed_claim"
)

// PendingAction は進行中の決着待ち状態を表すタグ付きユニオンです。
// アクション種別×段階ごとに1つの具象型を持ち、ありえないフィールドの
// 組み合わせは表現できません。同時に存在する決着待ちは常に1つだけです。
type PendingAction interface {
	// Stage は視聴者投影に使う段階名を返します。
	Stage() string
}

// PendingLoseInfluence は強制公開の決着待ちです。
type PendingLoseInfluence struct {
	PlayerID     uint
	Reason       string
	Continuation Continuation
}

// PendingTaxChallenge は徴税のDuke主張に対する異議受付です。
type PendingTaxChallenge struct {
	ActorID    uint
	Responders Responders
}

// PendingForeignAidBlock は海外援助のブロック受付です。
// アクター以外の全生存者がブロックを宣言できます。
type PendingForeignAidBlock struct {
	ActorID    uint
	Responders Responders
}

// PendingForeignAidBlockChallenge はDukeブロック主張への異議受付です。
// 元のアクターも異議を唱えられます。
type PendingForeignAidBlockChallenge struct {
	ActorID    uint
	BlockerID  uint
	Responders Responders
}

// PendingAssassinateChallenge は暗殺のAssassin主張に対する異議受付です。
type PendingAssassinateChallenge struct {
	ActorID    uint
	TargetID   uint
	Responders Responders
}

// PendingAssassinateBlock は標的本人だけに開かれるContessaブロック受付です。
type PendingAssassinateBlock struct {
	ActorID  uint
	TargetID uint
}

// PendingAssassinateBlockChallenge はContessaブロック主張への異議受付です。
type PendingAssassinateBlockChallenge struct {
	ActorID    uint
	TargetID   uint
	Responders Responders
}

// PendingStealChallenge は強奪のCaptain主張に対する異議受付です。
type PendingStealChallenge struct {
	ActorID    uint
	TargetID   uint
	Responders Responders
}

// PendingStealBlock は標的本人だけに開かれる強奪ブロック受付です。
// CaptainまたはAmbassadorのどちらを主張するかは標的が選びます。
type PendingStealBlock struct {
	ActorID  uint
	TargetID uint
}

// PendingStealBlockChallenge は強奪ブロック主張への異議受付です。
// どちらの役職を主張したかを保持します。
type PendingStealBlockChallenge struct {
	ActorID    uint
	TargetID   uint
	BlockRole  Role
	Responders Responders
}

// PendingExchangeChallenge は交換のAmbassador主張に対する異議受付です。
type PendingExchangeChallenge struct {
	ActorID    uint
	Responders Responders
}

// PendingExchangeChoice はアクター本人の交換選択待ちです。選択肢そのものは
// ゲーム状態の外の秘匿ストアにあり、ここには数だけが載ります。
type PendingExchangeChoice struct {
	ActorID     uint
	KeepCount   int
	OptionCount int
}

func (*PendingLoseInfluence) Stage() string             { return "lose_influence" }
func (*PendingTaxChallenge) Stage() string              { return "tax_challenge" }
func (*PendingForeignAidBlock) Stage() string           { return "foreign_aid_block" }
func (*PendingForeignAidBlockChallenge) Stage() string  { return "foreign_aid_block_challenge" }
func (*PendingAssassinateChallenge) Stage() string      { return "assassinate_challenge" }
func (*PendingAssassinateBlock) Stage() string          { return "assassinate_block" }
func (*PendingAssassinateBlockChallenge) Stage() string { return "assassinate_block_challenge" }
func (*PendingStealChallenge) Stage() string            { return "steal_challenge" }
func (*PendingStealBlock) Stage() string                { return "steal_block" }
func (*PendingStealBlockChallenge) Stage() string       { return "steal_block_challenge" }
func (*PendingExchangeChallenge) Stage() string         { return "exchange_challenge" }
func (*PendingExchangeChoice) Stage() string            { return "exchange_choice" }
