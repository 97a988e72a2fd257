//go:build blackbox

package blackbox

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var optriskBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "optrisk-blackbox-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	optriskBin = filepath.Join(tmp, "optrisk")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", optriskBin, "../../cmd/optrisk")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(optriskBin, args...)
	cmd.Env = append(os.Environ(), "OPTRISK_LOGGING_LEVEL=error")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\noutput:\n%s", err, args, string(out))
	}
	return string(out)
}
