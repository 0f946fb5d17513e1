package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sort"
	"strings"

	"webhaak/internal/model"
)

// renderCommand substitutes the placeholders in a command template:
// REPODIR, CACHEDIR and REPOVERSION plus the upper-cased field names of the
// event. Field values have double quotes escaped so they can sit inside a
// quoted shell argument. Longer placeholder names are substituted first so
// BRANCH_BEFORE is never clobbered by BRANCH.
func renderCommand(template, repoDir, cacheDir, repoVersion string, hook model.HookInfo) string {
	values := map[string]string{
		"REPODIR":     repoDir,
		"CACHEDIR":    cacheDir,
		"REPOVERSION": repoVersion,
	}
	for key, value := range hook.StringFields() {
		values[strings.ToUpper(key)] = strings.ReplaceAll(value, `"`, `\"`)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	rendered := template
	for _, key := range keys {
		rendered = strings.ReplaceAll(rendered, key, values[key])
	}
	return rendered
}

// shellRunner executes commands through the system shell.
type shellRunner struct{}

func (shellRunner) Run(ctx context.Context, command, dir string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}
