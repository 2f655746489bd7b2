// Package main provides an interactive CLI for driving the planning
// assistant scenario against a real model.
//
// Configuration comes from the environment (a .env file is loaded when
// present):
//
//	REAGENT_TEST_OPENAI_KEY  API key for the model provider (required)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/integrationtest/backlog"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; the environment may already be configured.
	_ = godotenv.Load()

	session, err := backlog.NewLiveSession()
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	rl, err := readline.New(colorCyan + "question> " + colorReset)
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%sPlanning assistant%s\n", colorBold, colorReset)
	fmt.Printf("%sAsk estimation questions about the feature backlog. "+
		"'q' to quit.%s\n\n", colorDim, colorReset)

	store := backlog.NewStore()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		question := strings.TrimSpace(line)
		switch question {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}

		if err := ask(ctx, session, store, logFile, question); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("%sRun failed: %v%s\n\n", colorRed, err, colorReset)
		}
	}
}

// ask runs one question through a fresh loop. The store persists
// across questions so backlog mutations carry over; full step logs go
// to the log file.
func ask(
	ctx context.Context,
	session reagent.Session,
	store *backlog.Store,
	logWriter io.Writer,
	question string,
) error {
	loop := backlog.NewLoop(session, store, logWriter)

	final, err := loop.Run(ctx, question)
	if err != nil {
		return err
	}

	for i, step := range loop.Trace() {
		if step.IsAction() {
			fmt.Printf("%s[%d] %s(%s)%s\n",
				colorDim, i, step.ActionName, step.ActionArgs.String(), colorReset)
		}
	}
	fmt.Printf("%s%s%s\n\n", colorGreen, final.FinalAnswer, colorReset)
	return nil
}

func openLogFile() (*os.File, error) {
	logDir := ".logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.Create(filepath.Join(logDir, "cli_backlog.log"))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return f, nil
}
