package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type inputProvider struct {
	xprintidlePath string
}

type unsupportedInputProvider struct{}

func newInputProvider() InputProvider {
	// xprintidle reads the X screensaver extension, which Wayland sessions
	// do not expose.
	if strings.ToLower(os.Getenv("XDG_SESSION_TYPE")) == "wayland" {
		return unsupportedInputProvider{}
	}
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedInputProvider{}
	}
	return &inputProvider{xprintidlePath: path}
}

func (provider *inputProvider) InputIdle() (time.Duration, error) {
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	value := strings.TrimSpace(string(output))
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (unsupportedInputProvider) InputIdle() (time.Duration, error) {
	return 0, ErrInputUnsupported
}
