package beep

import (
	"fmt"
	"os/exec"
	"time"
)

// Chime frequencies (Hz): a high A for a decode, a low C# when nothing was found
const (
	SuccessFrequency = 880
	FailureFrequency = 554
)

// freedesktop sounds tried by paplay, per outcome
var (
	successSounds = []string{
		"/usr/share/sounds/freedesktop/stereo/complete.oga",
		"/usr/share/sounds/freedesktop/stereo/message.oga",
	}
	failureSounds = []string{
		"/usr/share/sounds/freedesktop/stereo/dialog-warning.oga",
		"/usr/share/sounds/freedesktop/stereo/bell.oga",
	}
)

// run is replaced in tests
var run = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Success plays the decode chime
func Success() {
	play(successSounds, SuccessFrequency)
}

// Failure plays the nothing-found chime
func Failure() {
	play(failureSounds, FailureFrequency)
}

func play(sounds []string, freq int) {
	// Method 1: paplay with a system sound (PulseAudio/PipeWire)
	if tryPaplay(sounds) {
		return
	}

	// Method 2: speaker-test (ALSA)
	if trySpeakerTest(freq) {
		return
	}

	// Method 3: Console beep (may not work on all systems)
	fmt.Print("\a")
}

// tryPaplay plays the first sound file paplay accepts
func tryPaplay(sounds []string) bool {
	for _, sound := range sounds {
		if err := run("paplay", sound); err == nil {
			return true
		}
	}

	return false
}

// trySpeakerTest uses speaker-test to generate a tone
func trySpeakerTest(freq int) bool {
	cmd := exec.Command("speaker-test", "-t", "sine", "-f", fmt.Sprintf("%d", freq), "-l", "1", "-p", "1")
	cmd.Stdout = nil
	cmd.Stderr = nil
	err := cmd.Start()
	if err != nil {
		return false
	}

	// Kill after 100ms
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = cmd.Process.Kill()
	}()

	return true
}
