package notify

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/kartoza/kartoza-qrgrab/internal/logging"
)

// Urgency levels for notifications
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// AppName is reported to the notification daemon
const AppName = "kartoza-qrgrab"

// byte values of the urgency hint in the freedesktop spec
var urgencyLevels = map[Urgency]byte{
	UrgencyLow:      0,
	UrgencyNormal:   1,
	UrgencyCritical: 2,
}

// replaced in tests
var (
	lookPath = exec.LookPath
	runCmd   = func(name string, args ...string) error { return exec.Command(name, args...).Run() }
	sendDBus = sendViaDBus
)

// Send sends a desktop notification using notify-send, or directly over the
// session bus when notify-send is not installed
func Send(title, body string, urgency Urgency, icon string) error {
	if _, err := lookPath("notify-send"); err != nil {
		slog.DebugContext(logging.PackageCtx("notify"), "notify-send not found, using D-Bus", "title", title)
		return sendDBus(title, body, urgency, icon)
	}

	args := []string{title, body}

	if urgency != "" {
		args = append(args, "--urgency="+string(urgency))
	}

	if icon != "" {
		args = append(args, "--icon="+icon)
	}

	args = append(args, "--app-name="+AppName)

	return runCmd("notify-send", args...)
}

func sendViaDBus(title, body string, urgency Urgency, icon string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{}
	if level, ok := urgencyLevels[urgency]; ok {
		hints["urgency"] = dbus.MakeVariant(level)
	}

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), icon, title, body, []string{}, hints, int32(-1))
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}

	return nil
}

// Info sends an informational notification
func Info(title, body string) error {
	return Send(title, body, UrgencyNormal, "edit-paste")
}

// Warning sends a warning notification
func Warning(title, body string) error {
	return Send(title, body, UrgencyLow, "dialog-warning")
}

// Error sends an error notification
func Error(title, body string) error {
	return Send(title, body, UrgencyCritical, "dialog-error")
}

// Failed notifies that a selection ended without a result
func Failed(err error) error {
	return Error("QR Grab", err.Error())
}

// Decoded notifies about the payloads found; the body mirrors the clipboard text
func Decoded(joined string) error {
	if joined == "" {
		return Warning("QR Grab", "No QR code found")
	}
	return Info("QR Grab", "QR: "+joined)
}
