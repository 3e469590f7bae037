// Command token mints a bearer token for a principal using the API's JWT settings.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"subscription-ledger/config"
	"subscription-ledger/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	principal := flag.String("principal", "", "principal to embed in the token (required)")
	configPath := flag.String("config", "", "path to config.yaml")
	expiry := flag.Duration("expiry", 0, "override token lifetime, e.g. 1h")
	flag.Parse()

	if *principal == "" {
		fmt.Fprintln(os.Stderr, "usage: token -principal <id> [-config path] [-expiry 1h]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "jwt.secret is empty (set SLD_JWT_SECRET)")
		os.Exit(1)
	}

	lifetime := cfg.JWT.Expiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	tok, exp, err := service.NewJWTTokenService(cfg.JWT.Secret, lifetime, cfg.JWT.Issuer).Generate(*principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tok)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}
