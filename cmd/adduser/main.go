// Command adduser creates a user account directly in the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anvaya/anvaya-go/internal/config"
	"github.com/anvaya/anvaya-go/internal/crypto"
	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
)

func main() {
	var (
		name     = flag.String("name", "", "display name")
		email    = flag.String("email", "", "login email")
		role     = flag.String("role", string(model.RoleStudent), "student, faculty or admin")
		password = flag.String("password", "", "initial password; generated when empty")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if err := run(cfg, *name, *email, *role, *password); err != nil {
		slog.Error("adduser failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, name, email, role, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return errors.New("-name and -email are required")
	}
	r := model.Role(role)
	if !r.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	generated := password == ""
	if generated {
		var err error
		password, err = crypto.GeneratePassword(crypto.DefaultPasswordLength)
		if err != nil {
			return err
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := &model.User{Name: name, Email: email, PasswordHash: hash, Role: r}
	if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
		return err
	}

	slog.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	if generated {
		fmt.Printf("generated password for %s: %s\n", user.Email, password)
	}
	return nil
}
