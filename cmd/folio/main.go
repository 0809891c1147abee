package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/folio"
	"github.com/eringen/folio/identity"
)

// version is set at build time via ldflags.
var version = "dev"

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(optionalArg(2))
	case "adduser", "passwd":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: folio %s <email> [config.yaml]\n", os.Args[1])
			os.Exit(1)
		}
		err = runUser(os.Args[1], os.Args[2], optionalArg(3))
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func optionalArg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func runServe(configPath string) error {
	cfg, err := folio.LoadConfig(configPath)
	if err != nil {
		return err
	}
	app := folio.New(cfg, folio.ViewFuncs{})
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

// runUser creates a user or resets a password. The password is read from
// FOLIO_PASSWORD so it stays out of shell history.
func runUser(cmd, email, configPath string) error {
	password := os.Getenv("FOLIO_PASSWORD")
	if password == "" {
		return errors.New("set FOLIO_PASSWORD to the new password")
	}
	cfg, err := folio.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyDefaults()

	users, err := identity.NewUsers(cfg.AuthDatabasePath)
	if err != nil {
		return err
	}
	defer users.Close()

	ctx := context.Background()
	if cmd == "passwd" {
		if err := users.SetPassword(ctx, email, password); err != nil {
			return err
		}
		log.Printf("password updated for %s", email)
		return nil
	}
	id, err := users.CreateUser(ctx, email, password)
	if err != nil {
		return err
	}
	log.Printf("created user %s (%s)", id.Email, id.UID)
	return nil
}

func printUsage() {
	fmt.Println(`folio - A self-hosted portfolio with in-place admin editing

Usage:
  folio <command> [arguments]

Commands:
  serve [config.yaml]            Run the web server
  adduser <email> [config.yaml]  Create a sign-in user (password from FOLIO_PASSWORD)
  passwd <email> [config.yaml]   Reset a user's password (password from FOLIO_PASSWORD)
  version                        Print the folio version
  help                           Show this help message

Configuration is read from the optional YAML file, then FOLIO_* environment
variables, with a .env file loaded first when present.`)
}
