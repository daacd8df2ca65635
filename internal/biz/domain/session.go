package domain

// EditMode distinguishes the add and remove watchlist flows.
type EditMode int

const (
	ModeAdd EditMode = iota
	ModeRemove
)

func (m EditMode) String() string {
	if m == ModeRemove {
		return "remove"
	}
	return "add"
}

// EditState is the state of a user's watchlist-editing session.
type EditState int

const (
	// StateIdle means no edit flow is in progress.
	StateIdle EditState = iota
	// StateBrowsing means the user is paging through the catalog.
	StateBrowsing
	// StateAwaitingText means the next free-text message is a manual
	// add/remove submission.
	StateAwaitingText
)

// EditSession is the transient per-user watchlist-editing state.
// Idle is both the initial state and the resting state after every
// completed or cancelled flow.
type EditSession struct {
	State EditState
	Mode  EditMode
	Page  int
}

// StartBrowse begins a browsing flow at page 0.
func (s *EditSession) StartBrowse(mode EditMode) {
	s.State = StateBrowsing
	s.Mode = mode
	s.Page = 0
}

// SetPage navigates to a page, clamped to [0, lastPage].
func (s *EditSession) SetPage(page, lastPage int) {
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}
	s.Page = page
}

// AwaitText switches the session to manual text entry. The page resets
// so a later browse starts from the beginning.
func (s *EditSession) AwaitText(mode EditMode) {
	s.State = StateAwaitingText
	s.Mode = mode
	s.Page = 0
}

// AwaitingText reports whether the next free-text message belongs to a
// manual add/remove flow.
func (s *EditSession) AwaitingText() bool {
	return s.State == StateAwaitingText
}

// Reset returns the session to idle.
func (s *EditSession) Reset() {
	s.State = StateIdle
	s.Mode = ModeAdd
	s.Page = 0
}
