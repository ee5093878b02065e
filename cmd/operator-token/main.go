// Command operator-token prints a signed bearer token for the operator
// routes (dashboard stats and finalize), using the same environment as the
// server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "teamsort/internal/jwt_token"
	"teamsort/internal/platform/config"
)

func main() {
	name := flag.String("name", "operator", "operator name recorded in the token subject")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, warnings := config.FromEnv()
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	tokens := jwttoken.NewJWTService(cfg.Server.OperatorJWTSecret, cfg.Server.OperatorIssuer, cfg.Server.OperatorAudience)
	token, err := tokens.GenerateOperatorToken(*name, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
