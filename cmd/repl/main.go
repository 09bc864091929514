// REPL binary for interactively building, rendering and executing SQL
// statements with squill.
//
// Configuration is read from ~/.squill.yaml:
//
//	engine: postgres        # postgres | mysql | sqlite
//	dsn: postgres://localhost/app
//	history_file: ~/.squill_history
//	inline: false           # render literals instead of placeholders
//	log_level: warn         # debug | info | warn | error | disable
//
// and overridden by environment variables:
//
//	SQUILL_ENGINE=postgres|mysql|sqlite  (prompted if absent everywhere)
//	DATABASE_URL=<dsn>                    (auto-connects if set)
//	SQUILL_LOG_LEVEL=debug|info|warn|error|disable
//
// Usage:
//
//	go run ./cmd/repl
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/go-sql-driver/mysql"
)

const replPrompt = "squill> "

func main() {
	cfg, err := loadConfig(defaultConfigPath(), os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "[Config] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Error("readline init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := cfg.Engine
	if engine == "" {
		engine = chooseEngine(rl)
	} else {
		fmt.Printf("[Config] Engine: %s\n", engine)
	}
	sess := NewSession(engine, rl)
	sess.ctx = ctx
	sess.log = logger
	sess.inline = cfg.Inline

	_ = rl.SetConfig(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyPath(cfg),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if cfg.DSN != "" {
		fmt.Printf("[Config] Connecting to %s...\n", sanitizeDSN(cfg.DSN))
		if err := sess.Execute("connect " + cfg.DSN); err != nil {
			logger.Warn("startup connect failed", "err", err)
		}
	} else {
		offerConnection(rl, sess)
	}

	fmt.Println()
	fmt.Println("squill REPL: type 'help' for commands, 'exit' to quit")
	fmt.Println()

	rl.SetPrompt(replPrompt)
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) || err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	sess.close()
	fmt.Println()
}

func chooseEngine(rl *readline.Instance) string {
	choice := strings.ToLower(strings.TrimSpace(ask(rl, "Select engine (postgres, mysql, sqlite)", "postgres")))
	if !isValidEngine(choice) {
		fmt.Fprintf(os.Stderr, "Warning: unknown engine %q, defaulting to postgres\n", choice)
		return "postgres"
	}
	fmt.Printf("[Config] Engine: %s\n", choice)
	return choice
}

func offerConnection(rl *readline.Instance, sess *Session) {
	answer := strings.ToLower(strings.TrimSpace(ask(rl, "Connect to a database? (y/N)", "")))
	if answer != "y" && answer != "yes" {
		fmt.Println("[Config] Skipped: use 'connect <dsn>' later to connect")
		return
	}
	if err := sess.connectViaWizard(); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: connect failed: %v\n", err)
		fmt.Println("[Config] Use 'connect <dsn>' later to retry")
	}
}

// ask prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func ask(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt(replPrompt)
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	if val := strings.TrimSpace(line); val != "" {
		return val
	}
	return defaultVal
}

func buildSQLiteDSN(rl *readline.Instance) string {
	fmt.Println("[Config] SQLite connection setup:")
	return ask(rl, "Database path", ":memory:")
}

func buildPostgresDSN(rl *readline.Instance) string {
	fmt.Println("[Config] PostgreSQL connection setup:")

	defaultUser := "postgres"
	if u, err := user.Current(); err == nil && u.Username != "" {
		defaultUser = u.Username
	}
	dbUser := ask(rl, "User", defaultUser)
	dbPass := ask(rl, "Password", "")
	host := ask(rl, "Host", "localhost")
	port := ask(rl, "Port", "5432")
	dbName := ask(rl, "Database", dbUser)
	sslMode := ask(rl, "SSL mode (disable/require/verify-full)", "disable")

	userInfo := url.User(dbUser)
	if dbPass != "" {
		userInfo = url.UserPassword(dbUser, dbPass)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func buildMySQLDSN(rl *readline.Instance) string {
	fmt.Println("[Config] MySQL connection setup:")

	c := mysql.NewConfig()
	c.User = ask(rl, "User", "root")
	c.Passwd = ask(rl, "Password", "")
	c.Net = "tcp"
	c.Addr = ask(rl, "Host", "localhost") + ":" + ask(rl, "Port", "3306")
	c.DBName = ask(rl, "Database", "")
	if c.DBName == "" {
		return ""
	}
	return c.FormatDSN()
}

func historyPath(cfg config) string {
	if cfg.HistoryFile != "" {
		if rest, ok := strings.CutPrefix(cfg.HistoryFile, "~/"); ok {
			if home, err := os.UserHomeDir(); err == nil {
				return filepath.Join(home, rest)
			}
		}
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".squill_history")
}
