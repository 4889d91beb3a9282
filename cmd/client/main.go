// Command client is a terminal chat client for the backend. It keeps the
// same local state as the web UI: persisted message history and theme,
// a send cooldown, and a synthetic error message when the server is
// unreachable.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"assistant-backend/internal/config"
	"assistant-backend/internal/database"
	"assistant-backend/internal/session"
)

func main() {
	cfg := config.Load()

	serverURL := fmt.Sprintf("http://localhost:%s", cfg.Port)
	if len(os.Args) > 1 {
		serverURL = strings.TrimRight(os.Args[1], "/")
	}

	// Redis-backed persistence when configured, in-memory otherwise.
	var store session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer client.Close()

		sessionID := os.Getenv("CHAT_SESSION_ID")
		if sessionID == "" {
			sessionID = "default"
		}
		store = session.NewRedisStore(client, sessionID)
	}

	ctx := context.Background()

	sess := session.New(store, session.DefaultCooldown)
	if err := sess.Restore(ctx); err != nil {
		log.Fatalf("✗ Failed to restore session: %v", err)
	}

	for _, m := range sess.Messages() {
		fmt.Printf("[%s] %s: %s\n", m.Time, m.Role, m.Text)
	}

	fmt.Printf("Connected to %s — type a message, or /clear, /export, /theme, /quit\n", serverURL)

	sender := session.NewClient(serverURL, nil)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return
		case "/clear":
			if err := sess.Clear(ctx); err != nil {
				fmt.Printf("failed to clear: %v\n", err)
			} else {
				fmt.Println("history cleared")
			}
			continue
		case "/export":
			fmt.Println(sess.Export())
			continue
		case "/theme":
			if err := sess.SetTheme(ctx, !sess.Dark()); err != nil {
				fmt.Printf("failed to save theme: %v\n", err)
			} else if sess.Dark() {
				fmt.Println("theme: dark")
			} else {
				fmt.Println("theme: light")
			}
			continue
		}

		sess.SetDraft(line)
		reply, err := sess.Send(ctx, sender)
		if errors.Is(err, session.ErrCooldown) {
			fmt.Println("Please wait a moment before sending again.")
			continue
		}
		if err != nil {
			fmt.Printf("send failed: %v\n", err)
			continue
		}

		fmt.Printf("[%s] ai: %s\n", reply.Time, reply.Text)
	}
}
