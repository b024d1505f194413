package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/config"
)

// Issues a handoff token the way the publisher portal does, for local testing
// of /sso/consume and the landing flow.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	secret := flag.String("secret", os.Getenv("SSO_SHARED_SECRET"), "shared HS256 secret")
	issuer := flag.String("issuer", envOr("SSO_EXPECTED_ISSUER", "project1"), "iss claim")
	audience := flag.String("audience", envOr("SSO_EXPECTED_AUDIENCE", "project2"), "aud claim")
	subject := flag.String("sub", "publisher-1", "sub claim")
	username := flag.String("username", "publisher", "username claim")
	roles := flag.String("roles", "publisher", "comma-separated roles")
	campaignID := flag.String("campaign", "", "optional campaign_id claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	baseURL := flag.String("base", envOr("SITE_BASE_URL", "http://localhost:8080"), "portal base URL")
	next := flag.String("next", "/", "local path to continue to after consume")
	flag.Parse()

	verifier, err := auth.NewVerifier(config.SSOConfig{
		SharedSecret:     *secret,
		ExpectedIssuer:   *issuer,
		ExpectedAudience: *audience,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create verifier: %v (set SSO_SHARED_SECRET or -secret)\n", err)
		os.Exit(1)
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, err := verifier.Issue(auth.Identity{
		Subject:    *subject,
		Username:   *username,
		Roles:      roleList,
		CampaignID: *campaignID,
	}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	q := url.Values{"token": {token}, "next": {*next}}
	if *campaignID != "" {
		q.Set("campaign_id", *campaignID)
	}

	fmt.Printf("SSO_TOKEN=%s\n", token)
	fmt.Printf("\nConsume URL:\n%s/sso/consume?%s\n", strings.TrimRight(*baseURL, "/"), q.Encode())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
