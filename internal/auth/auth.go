// Package auth acquires the keystore password. The engine never reads
// passwords itself; it consumes an already-obtained value, and this package
// is where that value comes from.
//
// Sources, in order: the KNEST_PASSWORD environment variable, the OS
// keyring (when enabled), piped stdin when stdin is not a terminal, and an
// interactive no-echo prompt. Passwords never pass through argv.
package auth

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnvVar is the environment variable consulted first.
const EnvVar = "KNEST_PASSWORD"

var (
	// ErrNoPassword means every configured source came up empty.
	ErrNoPassword = errors.New("no password provided")
	// ErrMismatch means the two entries of a confirmation flow differ.
	ErrMismatch = errors.New("passwords do not match")
	// ErrEmpty rejects empty passwords during init and rekey.
	ErrEmpty = errors.New("password cannot be empty")
)

// Options configures password acquisition.
type Options struct {
	// Keyring, when non-nil, is consulted after the environment variable.
	Keyring Keyring
	// Account identifies the keyring entry, normally the store path.
	Account string
	// NonInteractive suppresses the terminal prompt.
	NonInteractive bool

	// Stdin and Stderr default to the process streams; tests substitute
	// them.
	Stdin  io.Reader
	Stderr io.Writer
}

func (o Options) stdin() io.Reader {
	if o.Stdin != nil {
		return o.Stdin
	}
	return os.Stdin
}

func (o Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// ReadPassword obtains the password for opening an existing keystore.
func ReadPassword(opts Options) ([]byte, error) {
	if pw := os.Getenv(EnvVar); pw != "" {
		return []byte(pw), nil
	}

	if opts.Keyring != nil {
		pw, err := opts.Keyring.Get(opts.Account)
		switch {
		case err == nil && pw != "":
			return []byte(pw), nil
		case err != nil && !errors.Is(err, ErrKeyringNotFound):
			return nil, fmt.Errorf("keyring lookup: %w", err)
		}
	}

	in := opts.stdin()
	if !isTerminal(in) {
		pw, err := readLine(in)
		if err != nil {
			return nil, err
		}
		if len(pw) > 0 {
			return pw, nil
		}
		return nil, ErrNoPassword
	}

	if opts.NonInteractive {
		return nil, ErrNoPassword
	}

	pw, err := promptPassword(in, opts.stderr(), "Password: ")
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, ErrNoPassword
	}
	return pw, nil
}

// ReadNewPassword obtains a password for init or rekey with a confirmation
// flow: interactively it prompts twice, piped it reads two lines. Both
// entries must match and be non-empty.
func ReadNewPassword(opts Options) ([]byte, error) {
	if pw := os.Getenv(EnvVar); pw != "" {
		return []byte(pw), nil
	}

	in := opts.stdin()
	if !isTerminal(in) {
		reader := bufio.NewReader(in)
		first, err := readLineFrom(reader)
		if err != nil {
			return nil, err
		}
		second, err := readLineFrom(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return confirm(first, second)
	}

	if opts.NonInteractive {
		return nil, ErrNoPassword
	}

	stderr := opts.stderr()
	first, err := promptPassword(in, stderr, "New password: ")
	if err != nil {
		return nil, err
	}
	second, err := promptPassword(in, stderr, "Confirm password: ")
	if err != nil {
		return nil, err
	}
	return confirm(first, second)
}

func confirm(first, second []byte) ([]byte, error) {
	if len(first) == 0 {
		return nil, ErrEmpty
	}
	if !bytes.Equal(first, second) {
		return nil, ErrMismatch
	}
	return first, nil
}

// isTerminal reports whether r is an interactive terminal. Substituted
// readers (tests, pipes around a reconstructed stdin) never are.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func promptPassword(in io.Reader, out io.Writer, prompt string) ([]byte, error) {
	f, ok := in.(*os.File)
	if !ok {
		return nil, ErrNoPassword
	}
	fmt.Fprint(out, prompt)
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func readLine(r io.Reader) ([]byte, error) {
	return readLineFrom(bufio.NewReader(r))
}

func readLineFrom(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read password from stdin: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
