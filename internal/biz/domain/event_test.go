package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCallbackEvent_RoundTrip(t *testing.T) {
	cases := []CallbackEvent{
		{Action: ActionBrowse, Mode: ModeAdd},
		{Action: ActionPage, Mode: ModeRemove, Page: 3},
		{Action: ActionPick, Mode: ModeAdd, Item: "Grandmaster Sprinkler"},
		{Action: ActionCancel},
		{Action: ActionNotifyOff},
	}

	for _, want := range cases {
		got, err := ParseCallbackEvent(want.Encode())
		if err != nil {
			t.Fatalf("ParseCallbackEvent(%q): %v", want.Encode(), err)
		}
		if diff := cmp.Diff(&want, got); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseCallbackEvent_RejectsMalformedData(t *testing.T) {
	for _, data := range []string{"", "browse", "browse|x|0|", "page|0|x|", "pick|7|0|Item"} {
		if _, err := ParseCallbackEvent(data); err == nil {
			t.Errorf("Expected error for %q", data)
		}
	}
}
