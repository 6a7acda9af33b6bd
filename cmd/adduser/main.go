// Command adduser provisions a login account in the configured database.
//
//	adduser -email user@nextmail.com -name User -password 123456
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/app"
	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/pkg/logging"
)

func main() {
	email := flag.String("email", "", "login email (exact match at sign-in)")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "password, at least 6 characters")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg.DB)
	if err != nil {
		logger.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	user, err := auth.Register(ctx, store, *email, *name, *password, bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to add user", "email", *email, "error", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("User added", "user_id", user.ID, "email", user.Email)
}
