// Package main mints a session token for local development and testing.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/tapfolio/tapfolio/internal/platform/config"
	"github.com/tapfolio/tapfolio/internal/platform/token"
)

func main() {
	accountID := flag.String("account", "", "account id to mint a token for")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *accountID == "" {
		config.Exitf("usage: devtoken -account <id> [-ttl <duration>]")
	}

	tokens, err := token.LoadConfigFromEnv(time.Now)
	if err != nil {
		config.Exitf("load session config: %v", err)
	}
	tokens.TTL = *ttl

	signed, err := token.Issue(*accountID, tokens)
	if err != nil {
		config.Exitf("issue token: %v", err)
	}
	fmt.Println(signed)
}
