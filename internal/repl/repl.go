package repl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"jabroni/internal/interp"

	"github.com/peterh/liner"
)

const PROMPT = "jabroni> "

// Start runs the interactive loop: each line is evaluated as an expression
// and the result (or the error) is printed. Errors never end the session.
// History persists to historyFile when it is non-empty.
func Start(ip *interp.Interp, historyFile string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(PROMPT)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if line == "" {
			continue
		}

		ln.AppendHistory(line)

		result, evalErr := ip.RunExpression(line)
		if evalErr != nil {
			fmt.Println(evalErr)
			continue
		}
		fmt.Println(result.Inspect())
	}
}
