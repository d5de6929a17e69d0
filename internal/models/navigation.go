package models

type Screen string

const (
	ScreenRegistration Screen = "registration"
	ScreenMain         Screen = "main"
	ScreenFutures      Screen = "futures"
	ScreenRoulette     Screen = "roulette"
	ScreenBonuses      Screen = "bonuses"
	ScreenManager      Screen = "manager"
	ScreenHistory      Screen = "history"
)

func ValidScreen(s Screen) bool {
	switch s {
	case ScreenRegistration, ScreenMain, ScreenFutures, ScreenRoulette,
		ScreenBonuses, ScreenManager, ScreenHistory:
		return true
	}
	return false
}

// NavigationState owns the current screen and the back-stack of prior
// screens. The stack never becomes empty: popping below one entry re-anchors
// to the main screen instead of leaving an undefined state.
type NavigationState struct {
	Current Screen   `json:"current"`
	Stack   []Screen `json:"stack"`
}

func NewNavigationState() *NavigationState {
	return &NavigationState{
		Current: ScreenRegistration,
		Stack:   []Screen{ScreenRegistration},
	}
}

// NavigateTo pushes screen onto the stack and makes it current. Repeated
// screens are allowed; screens fetch their own data on becoming visible, so
// there are no side effects here.
func (n *NavigationState) NavigateTo(screen Screen) {
	n.Stack = append(n.Stack, screen)
	n.Current = screen
}

// GoBack pops the current entry when there is history to pop, otherwise
// resets to a single main screen.
func (n *NavigationState) GoBack() {
	if len(n.Stack) > 1 {
		n.Stack = n.Stack[:len(n.Stack)-1]
		n.Current = n.Stack[len(n.Stack)-1]
		return
	}
	n.Current = ScreenMain
	n.Stack = []Screen{ScreenMain}
}

// Resolve applies the registration gate: unauthenticated or unregistered
// sessions always see the registration screen, regardless of history.
func (n *NavigationState) Resolve(registered bool) Screen {
	if !registered {
		return ScreenRegistration
	}
	return n.Current
}

func (n *NavigationState) Depth() int {
	return len(n.Stack)
}
