package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"hegel/colors"
	"hegel/internal/frontend/jsparser"
	"hegel/internal/semantics"
)

const (
	historyFile = ".hegel_history"
	promptMain  = ">> "
)

// cmdRepl runs an interactive loop: every snippet is parsed and built as
// a fresh module, and the inferred types of its bindings are printed
// together with any diagnostics.
func cmdRepl() int {
	fmt.Printf("hegel %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, colors.RED.Sprint(err.Error()))
			return 1
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if trimmed == ":quit" {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		program, err := jsparser.Parse(context.Background(), []byte(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, colors.RED.Sprint(err.Error()))
			continue
		}

		module, errs := semantics.BuildModuleScope(program)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, colors.RED.Sprint(e.Error()))
		}
		printBindings(module)
		ln.AppendHistory(line)
	}
}
