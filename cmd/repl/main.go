// REPL binary for interactively assembling and executing bracket-dialect
// SELECT statements one fragment at a time.
//
// Configuration (YAML, see internal/config):
//
//	EXPRSQL_CONFIG=<path>   (optional, defaults to ~/.exprsql.yaml)
//	DATABASE_URL=<dsn>      (optional, auto-connects if set)
//	EXPRSQL_ALIAS=<alias>   (optional, default alias "a")
//
// Usage:
//
//	go run ./cmd/repl
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bawdo/exprsql/internal/config"
	"github.com/ergochat/readline"
)

const mainPrompt = "exprsql> "

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          mainPrompt,
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	sess := NewSession(cfg, rl)

	// Set up the completer now that we have a session.
	_ = rl.SetConfig(&readline.Config{
		Prompt:          mainPrompt,
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if cfg.DSN != "" {
		fmt.Printf("[Config] Connecting to %s...\n", sanitizeDSN(cfg.DSN))
		if err := sess.Execute("connect " + cfg.DSN); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: connect failed: %v\n", err)
		}
	}

	fmt.Println()
	fmt.Println("exprsql REPL — type 'help' for commands, 'exit' to quit")
	fmt.Println()

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	if sess.conn != nil {
		_ = sess.conn.close()
	}
	fmt.Println()
}

// prompt prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt(mainPrompt)
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	val := strings.TrimSpace(line)
	if val == "" {
		return defaultVal
	}
	return val
}
