// Command opstoken prints an admin token for the ops HTTP API, signed with
// OPS_JWT_SECRET.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/set-night/earnhub/internal/httpapi"
)

func main() {
	subject := flag.String("subject", "ops", "token subject, shown in API logs")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	secret := os.Getenv("OPS_JWT_SECRET")
	if secret == "" {
		slog.Error("OPS_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := httpapi.IssueToken(secret, *subject, httpapi.RoleAdmin, *ttl)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
