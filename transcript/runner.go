package transcript

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

const stderrSnippetLen = 500

// runCommand executes an external tool with a timeout and returns its stdout.
// A missing binary is reported as KindToolMissing, everything else that goes
// wrong as KindToolFailed with a truncated stderr snippet for diagnostics.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, newError(KindToolMissing, "executable not found: "+name, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	logrus.WithFields(logrus.Fields{
		"command":  name,
		"duration": elapsed.String(),
		"success":  err == nil,
	}).Debug("External command finished")

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, newError(KindToolFailed, name+" timed out after "+timeout.String(), err)
		}
		return nil, newError(KindToolFailed, name+" failed: "+truncate(stderr.String(), stderrSnippetLen), err)
	}

	return stdout.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
