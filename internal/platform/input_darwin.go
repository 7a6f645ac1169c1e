package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type inputProvider struct{}

func newInputProvider() InputProvider {
	return &inputProvider{}
}

// InputIdle reads HIDIdleTime (nanoseconds) from the IOHIDSystem registry node.
func (provider *inputProvider) InputIdle() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		idleNanos, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse idle nanoseconds: %w", err)
		}
		if idleNanos < 0 {
			idleNanos = 0
		}
		return time.Duration(idleNanos), nil
	}
	return 0, ErrInputUnsupported
}
