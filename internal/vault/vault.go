// internal/vault/vault.go
//
// Vault client wrapper for parcelpoint.
//
// Context
// -------
//   - Concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, simple KV-v2 helpers, and per-key
//     caching.  Parcelpoint stores exactly one secret family here: the
//     carrier contract credentials referenced from conf/global.yaml.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                   // during boot.
//  2. pw,  err := cli.GetKV(ctx, path, key, ttl)   // anywhere in the app.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Create once at startup and inject it
// where needed.  Zero value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}

	go c.renewLoop(ctx)

	return c, nil
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.  Subsequent callers within the TTL receive the
// cached copy.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Probe the current token.
		sec, err := c.api.Auth().Token().RenewSelf(0)
		if err != nil {
			zap.S().Warnw("vault token renew-self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		if sec == nil || !sec.Auth.Renewable {
			zap.S().Infow("vault token is not renewable, sleeping", "sleep", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
			Grace:  15 * time.Second,
		})
		if err != nil {
			zap.S().Warnw("vault lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		go watcher.Start()

		renewing := true
		for renewing {
			select {
			case <-ctx.Done():
				watcher.Stop()
				return
			case err := <-watcher.DoneCh():
				watcher.Stop()
				if err != nil {
					zap.S().Warnw("vault token renewal stopped", "err", err)
				}
				backoff(ctx, 15*time.Second)
				renewing = false // fall through to a fresh probe
			case ev := <-watcher.RenewCh():
				if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
					zap.S().Debugw("vault token renewed",
						"ttl_seconds", ev.Secret.Auth.LeaseDuration)
				}
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
