// Package vcs runs the operator's commit command after a post is written.
package vcs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/dt-pm-tools/mdpub/internal/notify"
)

// FilenameToken is replaced with the published filename in command templates.
const FilenameToken = "{filename}"

const commandFailedCode = "VCS_COMMAND_FAILED"

// CommandError reports a command that could not be started or exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int // -1 when the command did not run to completion
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes commit commands through the system shell. The zero value
// inherits the process's standard streams and discards notifications.
type Runner struct {
	Notifier notify.Notifier
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Expand substitutes every {filename} token in template.
func Expand(template, filename string) string {
	return strings.ReplaceAll(template, FilenameToken, filename)
}

// Run expands template and executes it in cwd, waiting for it to finish.
// The outcome is reported to the notifier; failures are returned as
// go-errors command errors wrapping a *CommandError.
func (r *Runner) Run(template, cwd, filename string) error {
	command := Expand(template, filename)

	cmd := shellCommand(command)
	cmd.Dir = cwd
	cmd.Stdin = r.stdin()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	if err := cmd.Run(); err != nil {
		cerr := &CommandError{Command: command, ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		r.notify(notify.Failure, fmt.Sprintf("Git command failed: %v", cerr))
		return goerrors.Wrap(cerr, goerrors.CategoryCommand, "commit command failed").
			WithTextCode(commandFailedCode)
	}

	r.notify(notify.Success, fmt.Sprintf("Git command succeeded: %s", command))
	return nil
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("/bin/sh", "-c", command)
}

func (r *Runner) notify(level notify.Level, msg string) {
	if r.Notifier != nil {
		r.Notifier.Notify(level, msg)
	}
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
