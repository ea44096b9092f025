// Command token prints a bearer token for a user id, signed with JWT_SECRET.
//
//	go run ./cmd/token -user 1 -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"explorewithme/config"
	"explorewithme/internal/adapters/auth"
)

func main() {
	userID := flag.Int64("user", 0, "user id to put in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !cfg.AuthEnabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}
	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "-user must be a positive id")
		os.Exit(2)
	}

	token, err := auth.NewJWT(cfg.JWTSecret).Issue(*userID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
