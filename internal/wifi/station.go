package wifi

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Station joins a network and reports whether the link is up.
type Station interface {
	// Connect starts association. It may return before the link is up.
	Connect(ctx context.Context) error

	// IsConnected reports the current link state.
	IsConnected(ctx context.Context) (bool, error)
}

// Runner executes a command and returns its stdout.
// It is replaced in tests.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRunner runs commands with os/exec.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w: %s", ErrCommandFailed, name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// defaultWait bounds a single nmcli connect request, in seconds.
const defaultWait = 1

// NMCLI is a Station backed by NetworkManager's command line client.
type NMCLI struct {
	SSID     string
	Password string

	// Wait is passed to nmcli --wait so one connect request returns within
	// that many seconds. Values below 1 use defaultWait.
	Wait int

	// Run defaults to executing the nmcli binary.
	Run Runner
}

// NewNMCLI returns an NMCLI station for the given network.
func NewNMCLI(ssid, password string, wait int) *NMCLI {
	return &NMCLI{SSID: ssid, Password: password, Wait: wait, Run: execRunner}
}

// Connect runs "nmcli --wait <n> device wifi connect <ssid> [password <password>]".
// A failure here is usually transient at boot ("No network with SSID
// found") and Join retries it.
func (n *NMCLI) Connect(ctx context.Context) error {
	wait := n.Wait
	if wait < 1 {
		wait = defaultWait
	}
	args := []string{"--wait", strconv.Itoa(wait), "device", "wifi", "connect", n.SSID}
	if n.Password != "" {
		args = append(args, "password", n.Password)
	}
	if _, err := n.runner()(ctx, "nmcli", args...); err != nil {
		return fmt.Errorf("connecting to %q: %w", n.SSID, err)
	}
	return nil
}

// IsConnected runs "nmcli -t -f STATE general" and checks for "connected".
// The "connected (site only)" and "connected (local only)" states count as
// down since the broker is on the internet.
func (n *NMCLI) IsConnected(ctx context.Context) (bool, error) {
	out, err := n.runner()(ctx, "nmcli", "-t", "-f", "STATE", "general")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) == "connected", nil
}

func (n *NMCLI) runner() Runner {
	if n.Run == nil {
		return execRunner
	}
	return n.Run
}

// None is a Station for hosts whose network is managed elsewhere.
// It is always connected.
type None struct{}

// Connect implements Station.
func (None) Connect(context.Context) error { return nil }

// IsConnected implements Station.
func (None) IsConnected(context.Context) (bool, error) { return true, nil }
