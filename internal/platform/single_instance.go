package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already tracks this workspace.
var ErrAlreadyRunning = errors.New("workspace already tracked by another instance")

// InstanceGuard holds the per-workspace single-instance lock.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireInstance binds a localhost port derived from the app name and the
// workspace key. Two instances tracking the same workspace collide; distinct
// workspaces coexist.
func AcquireInstance(appName, workspaceKey string) (*InstanceGuard, error) {
	port := portFromKey(appName + "\x00" + workspaceKey)
	address := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Release frees the instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portFromKey(key string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
