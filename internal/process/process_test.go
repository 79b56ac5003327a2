package process

// Notes:
// - KillProcessGroup is exercised with PIDs that cannot belong to a live
//   process. Real group termination is covered by the converter's cancellation
//   path, which we cannot assert on safely from a unit test.
// - Configure is checked through the exec.Cmd it mutates, not by spawning.

import (
	"os/exec"
	"testing"
)

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1, 999999999} {
		// Must not panic, and must never signal our own group for pid 0.
		KillProcessGroup(pid)
	}
}

func TestConfigure_SetsProcAttr(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Configure(cmd)
	if cmd.SysProcAttr == nil {
		t.Fatal("Configure() left SysProcAttr nil")
	}

	// Calling twice keeps the existing attributes.
	attr := cmd.SysProcAttr
	Configure(cmd)
	if cmd.SysProcAttr != attr {
		t.Error("Configure() replaced an existing SysProcAttr")
	}
}
