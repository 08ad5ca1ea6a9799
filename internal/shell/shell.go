package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Shell runs user-configured commands with an in-process POSIX interpreter.
type Shell struct {
	mu         sync.Mutex
	dir        string
	env        []string
	blockFuncs []BlockFunc
}

// New creates a Shell that runs commands in dir with the given block functions.
func New(dir string, blockers []BlockFunc) *Shell {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Shell{
		dir:        dir,
		env:        os.Environ(),
		blockFuncs: blockers,
	}
}

// Exec runs a command synchronously in dir ("" for the shell's directory),
// returning stdout, stderr, and any error. extraEnv entries ("NAME=value") are
// added for this call only.
func (s *Shell) Exec(ctx context.Context, dir, command string, extraEnv ...string) (string, string, error) {
	if dir == "" {
		dir = s.dir
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var stdout, stderr bytes.Buffer
	err := s.exec(ctx, command, dir, extraEnv, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// Reveal runs the reveal command for file from the file's directory with
// $VATE_FILE set to its absolute path.
func (s *Shell) Reveal(ctx context.Context, command, file string) error {
	if strings.TrimSpace(command) == "" {
		return errors.New("no reveal command configured")
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	_, stderr, err := s.Exec(ctx, filepath.Dir(abs), command, "VATE_FILE="+abs)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func (s *Shell) exec(ctx context.Context, command, dir string, extraEnv []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command execution panic: %v", r)
		}
	}()

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}

	env := append(append([]string(nil), s.env...), extraEnv...)
	runner, err := interp.New(
		interp.StdIO(nil, stdout, stderr),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(dir),
		interp.ExecHandlers(s.blockHandler()),
	)
	if err != nil {
		return fmt.Errorf("could not create interpreter: %w", err)
	}

	return runner.Run(ctx, parsed)
}

func (s *Shell) blockHandler() func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return next(ctx, args)
			}
			for _, bf := range s.blockFuncs {
				if bf(args) {
					return fmt.Errorf("command blocked: %q", args[0])
				}
			}
			return next(ctx, args)
		}
	}
}

// Expand performs shell word expansion on a path typed by the user or read
// from the config: "~" and "$VAR" are expanded, quotes are removed. Words
// separated by unquoted spaces are joined back with a single space.
func Expand(word string) (string, error) {
	if strings.TrimSpace(word) == "" {
		return "", nil
	}
	f, err := syntax.NewParser().Parse(strings.NewReader(word), "")
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", word, err)
	}
	if len(f.Stmts) != 1 {
		return "", fmt.Errorf("expand %q: not a single word", word)
	}
	call, ok := f.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 {
		return "", fmt.Errorf("expand %q: not a single word", word)
	}

	cfg := &expand.Config{Env: expand.ListEnviron(os.Environ()...)}
	parts := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		s, err := expand.Literal(cfg, arg)
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", word, err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

// ExitCode extracts the exit code from an interpreter error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr interp.ExitStatus
	if errors.As(err, &exitErr) {
		return int(exitErr)
	}
	return 1
}
