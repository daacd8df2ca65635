package domain

import "testing"

func TestEditSession_StartBrowse_ResetsPage(t *testing.T) {
	session := &EditSession{State: StateBrowsing, Mode: ModeAdd, Page: 3}

	session.StartBrowse(ModeRemove)

	if session.State != StateBrowsing {
		t.Errorf("Expected browsing state, got %v", session.State)
	}
	if session.Mode != ModeRemove {
		t.Errorf("Expected remove mode, got %v", session.Mode)
	}
	if session.Page != 0 {
		t.Errorf("Expected page 0, got %d", session.Page)
	}
}

func TestEditSession_SetPage_ClampsToRange(t *testing.T) {
	session := &EditSession{State: StateBrowsing}

	session.SetPage(-2, 4)
	if session.Page != 0 {
		t.Errorf("Expected negative page clamped to 0, got %d", session.Page)
	}

	session.SetPage(9, 4)
	if session.Page != 4 {
		t.Errorf("Expected overflow page clamped to 4, got %d", session.Page)
	}

	session.SetPage(2, 4)
	if session.Page != 2 {
		t.Errorf("Expected page 2, got %d", session.Page)
	}
}

func TestEditSession_AwaitText_ResetsPage(t *testing.T) {
	session := &EditSession{State: StateBrowsing, Mode: ModeAdd, Page: 2}

	session.AwaitText(ModeAdd)

	if !session.AwaitingText() {
		t.Error("Expected session to await text")
	}
	if session.Page != 0 {
		t.Errorf("Expected page 0, got %d", session.Page)
	}
}

func TestEditSession_Reset_ReturnsToIdle(t *testing.T) {
	session := &EditSession{State: StateAwaitingText, Mode: ModeRemove, Page: 5}

	session.Reset()

	if session.State != StateIdle {
		t.Errorf("Expected idle state, got %v", session.State)
	}
	if session.Page != 0 {
		t.Errorf("Expected page 0, got %d", session.Page)
	}
	if session.AwaitingText() {
		t.Error("Expected session not to await text")
	}
}
