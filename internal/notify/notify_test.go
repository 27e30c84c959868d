package notify

import (
	"errors"
	"slices"
	"testing"
)

type recorded struct {
	name string
	args []string
}

func stub(t *testing.T, haveNotifySend bool) (*[]recorded, *[]string) {
	t.Helper()

	origLook, origRun, origDBus := lookPath, runCmd, sendDBus
	t.Cleanup(func() { lookPath, runCmd, sendDBus = origLook, origRun, origDBus })

	var cmds []recorded
	var dbusTitles []string

	lookPath = func(string) (string, error) {
		if haveNotifySend {
			return "/usr/bin/notify-send", nil
		}
		return "", errors.New("not found")
	}
	runCmd = func(name string, args ...string) error {
		cmds = append(cmds, recorded{name: name, args: args})
		return nil
	}
	sendDBus = func(title, body string, urgency Urgency, icon string) error {
		dbusTitles = append(dbusTitles, title)
		return nil
	}

	return &cmds, &dbusTitles
}

func TestSend_NotifySend(t *testing.T) {
	cmds, dbusTitles := stub(t, true)

	if err := Send("Title", "Body", UrgencyCritical, "dialog-error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(*cmds))
	}
	got := (*cmds)[0]
	if got.name != "notify-send" {
		t.Errorf("expected notify-send, got %s", got.name)
	}
	for _, want := range []string{"Title", "Body", "--urgency=critical", "--icon=dialog-error"} {
		if !slices.Contains(got.args, want) {
			t.Errorf("expected arg %q in %v", want, got.args)
		}
	}
	if len(*dbusTitles) != 0 {
		t.Error("expected no D-Bus fallback")
	}
}

func TestSend_DBusFallback(t *testing.T) {
	cmds, dbusTitles := stub(t, false)

	if err := Info("QR Grab", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*cmds) != 0 {
		t.Errorf("expected no commands, got %v", *cmds)
	}
	if len(*dbusTitles) != 1 || (*dbusTitles)[0] != "QR Grab" {
		t.Errorf("expected D-Bus notification, got %v", *dbusTitles)
	}
}

func TestDecoded(t *testing.T) {
	cmds, _ := stub(t, true)

	_ = Decoded("")
	_ = Decoded("a b")

	if len(*cmds) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(*cmds))
	}
	if !slices.Contains((*cmds)[0].args, "No QR code found") {
		t.Errorf("unexpected empty notification %v", (*cmds)[0].args)
	}
	if !slices.Contains((*cmds)[1].args, "QR: a b") {
		t.Errorf("unexpected notification %v", (*cmds)[1].args)
	}
}

func TestFailed(t *testing.T) {
	cmds, _ := stub(t, true)

	if err := Failed(errors.New("no selection made: cancelled")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*cmds) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*cmds))
	}
	for _, want := range []string{"no selection made: cancelled", "--urgency=critical", "--icon=dialog-error"} {
		if !slices.Contains((*cmds)[0].args, want) {
			t.Errorf("expected arg %q in %v", want, (*cmds)[0].args)
		}
	}
}
