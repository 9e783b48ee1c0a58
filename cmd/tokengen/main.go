// Command tokengen mints a bearer token for a ledger address, for local
// development and operational tooling. The signing key must match the
// server's JWT_SIGNING_KEY.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"skillpass/internal/jwttoken"
	"skillpass/internal/platform/config"
	id "skillpass/pkg/domain"
)

func main() {
	addrFlag := flag.String("address", "", "issuer address the token is bound to (0x...)")
	ttlFlag := flag.Duration("ttl", config.TokenTTL, "token lifetime")
	flag.Parse()

	addr, err := id.ParseAddress(*addrFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -address: %v\n", err)
		os.Exit(1)
	}

	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		fmt.Fprintln(os.Stderr, "JWT_SIGNING_KEY must be set")
		os.Exit(1)
	}

	svc := jwttoken.NewService(signingKey, "skillpass", *ttlFlag)
	token, err := svc.Generate(context.Background(), addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "address: %s\nexpires: %s\n", addr, time.Now().Add(*ttlFlag).UTC().Format(time.RFC3339))
}
