package session

// Phase は学習セッションの状態です
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingAnswer
	PhaseAnswered
	PhaseTransitioning
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseAnswered:
		return "answered"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Machine は学習セッションの純粋な状態遷移です。
// 各遷移は新しい値と受理されたかどうかを返し、受理されなければ元の値をそのまま返します
type Machine struct {
	Phase       Phase
	Index       int
	Total       int
	Correct     int
	LastCorrect bool
}

// NewMachine は total 件のアイテムで最初の回答待ちに入ります。0件なら開始しません
func NewMachine(total int) (Machine, bool) {
	if total <= 0 {
		return Machine{}, false
	}
	return Machine{Phase: PhaseAwaitingAnswer, Total: total}, true
}

// IsLast は現在のアイテムが最後かどうかです
func (m Machine) IsLast() bool {
	return m.Total > 0 && m.Index == m.Total-1
}

// Answer は現在のアイテムへの回答を1回だけ受け付けます
func (m Machine) Answer(correct bool) (Machine, bool) {
	if m.Phase != PhaseAwaitingAnswer {
		return m, false
	}
	m.Phase = PhaseAnswered
	m.LastCorrect = correct
	if correct {
		m.Correct++
	}
	return m, true
}

// BeginAdvance は次のアイテムへの移行を始めます。最後のアイテムでは受け付けません
func (m Machine) BeginAdvance() (Machine, bool) {
	if m.Phase != PhaseAnswered || m.IsLast() {
		return m, false
	}
	m.Phase = PhaseTransitioning
	return m, true
}

// EndAdvance は移行を終えて次のアイテムの回答待ちにします
func (m Machine) EndAdvance() (Machine, bool) {
	if m.Phase != PhaseTransitioning {
		return m, false
	}
	m.Phase = PhaseAwaitingAnswer
	m.Index++
	m.LastCorrect = false
	return m, true
}

// Complete は最後のアイテムに回答済みのときだけ完了にします。完了は1回きりです
func (m Machine) Complete() (Machine, bool) {
	if m.Phase != PhaseAnswered || !m.IsLast() {
		return m, false
	}
	m.Phase = PhaseCompleted
	return m, true
}

// Reset はカウンターを捨てて最初からやり直します
func (m Machine) Reset(total int) (Machine, bool) {
	next, ok := NewMachine(total)
	if !ok {
		return m, false
	}
	return next, true
}

// Answered は現在のアイテムに回答済みかどうかです
func (m Machine) Answered() bool {
	return m.Phase == PhaseAnswered || m.Phase == PhaseTransitioning || m.Phase == PhaseCompleted
}
