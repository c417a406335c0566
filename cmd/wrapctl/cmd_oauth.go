// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomtom215/malwrapped/internal/config"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/validation"
)

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Run the MAL OAuth flow by hand",
	Long: `oauth uses the server configuration (MAL_CLIENT_ID, MAL_CLIENT_SECRET,
MAL_REDIRECT_URI, config.yaml) to start and finish an authorization
without running the server.`,
}

var authorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Print an authorization URL and its PKCE verifier",
	RunE:  runAuthorizeURL,
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange an authorization code for tokens",
	RunE:  runExchange,
}

// exchangeInput is checked before any configuration is loaded.
type exchangeInput struct {
	Code     string `json:"code" validate:"required,max=1024"`
	Verifier string `json:"verifier" validate:"required,pkce_verifier"`
}

var (
	exchangeCode     string
	exchangeVerifier string
	exchangeTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(oauthCmd)
	oauthCmd.AddCommand(authorizeURLCmd)
	oauthCmd.AddCommand(exchangeCmd)

	exchangeCmd.Flags().StringVar(&exchangeCode, "code", "", "Authorization code from the redirect (required)")
	exchangeCmd.Flags().StringVar(&exchangeVerifier, "verifier", "", "Verifier printed by authorize-url (required)")
	exchangeCmd.Flags().DurationVar(&exchangeTimeout, "timeout", 30*time.Second, "Token request timeout")
	_ = exchangeCmd.MarkFlagRequired("code")
	_ = exchangeCmd.MarkFlagRequired("verifier")
}

func loadOAuth() (*mal.OAuth, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	oauth := mal.NewOAuth(mal.OAuthConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
		AuthorizeURL: cfg.OAuth.AuthorizeURL,
		TokenURL:     cfg.OAuth.TokenURL,
	})
	if !oauth.Configured() {
		return nil, mal.ErrOAuthNotConfigured
	}
	return oauth, nil
}

func runAuthorizeURL(cmd *cobra.Command, _ []string) error {
	oauth, err := loadOAuth()
	if err != nil {
		return err
	}
	verifier, err := mal.GeneratePKCE()
	if err != nil {
		return err
	}
	state := uuid.NewString()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "url:      %s\n", oauth.AuthorizationURL(state, verifier))
	fmt.Fprintf(out, "state:    %s\n", state)
	fmt.Fprintf(out, "verifier: %s\n", verifier)
	return nil
}

func runExchange(cmd *cobra.Command, _ []string) error {
	in := exchangeInput{Code: exchangeCode, Verifier: exchangeVerifier}
	if verr := validation.ValidateStruct(&in); verr != nil {
		return fmt.Errorf("invalid exchange input: %w", verr)
	}
	oauth, err := loadOAuth()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), exchangeTimeout)
	defer cancel()

	tokens, err := oauth.ExchangeCode(ctx, exchangeCode, exchangeVerifier)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	out, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
