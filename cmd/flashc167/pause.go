package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// waitForKey prompts and blocks until one key is pressed. On a terminal the
// key is read in raw mode so Enter is not required.
func waitForKey(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Press any key to continue...")

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer term.Restore(int(f.Fd()), state)
	}

	var b [1]byte
	if _, err := in.Read(b[:]); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
