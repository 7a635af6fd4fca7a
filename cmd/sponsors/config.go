package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"sponsors/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/securecookie"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

// loadCookieCodec returns nil when no hash key is configured, which turns
// off cookie based authentication.
func loadCookieCodec(c *types.Config) (*securecookie.SecureCookie, error) {
	if c.CookieHashKey == "" {
		return nil, nil
	}

	hashKey, err := base64.StdEncoding.DecodeString(c.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}

	var blockKey []byte
	if c.CookieBlockKey != "" {
		blockKey, err = base64.StdEncoding.DecodeString(c.CookieBlockKey)
		if err != nil {
			return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
		}
	}

	return securecookie.New(hashKey, blockKey), nil
}
