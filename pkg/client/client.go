// Package client assembles the synchronization SDK: a gateway (remote or
// fixture), a durable cache, the push channel and the two state stores.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/propconnect/propconnect/config"
	"github.com/propconnect/propconnect/pkg/client/cache"
	"github.com/propconnect/propconnect/pkg/client/channel"
	"github.com/propconnect/propconnect/pkg/client/gateway"
	"github.com/propconnect/propconnect/pkg/client/store"
)

// Client bundles the stores behind one lifecycle. The gateway variant is
// picked once at construction from config; nothing downstream branches on
// mode again.
type Client struct {
	Gateway       gateway.Gateway
	Cache         cache.Cache
	Channel       *channel.Simulated
	Requests      *store.RequestStore
	Conversations *store.ConversationStore
}

func New(cfg config.ClientConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	var cacheStore cache.Cache
	if cfg.CacheDir != "" {
		fs, err := cache.NewFileStore(cfg.CacheDir, log)
		if err != nil {
			return nil, err
		}
		cacheStore = fs
	} else {
		cacheStore = cache.NewMemory()
	}

	var gw gateway.Gateway
	switch cfg.Mode {
	case "fixture":
		gw = gateway.NewFixture(gateway.FixtureConfig{Cache: cacheStore, Logger: log})
	default:
		gw = gateway.NewRemote(gateway.RemoteConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.RequestTimeout(),
		})
	}

	ch := channel.NewSimulated(channel.Config{})

	c := &Client{
		Gateway: gw,
		Cache:   cacheStore,
		Channel: ch,
		Requests: store.NewRequestStore(store.RequestStoreConfig{
			Gateway:     gw,
			Cache:       cacheStore,
			Logger:      log,
			AutoRefresh: time.Duration(cfg.AutoRefreshSeconds) * time.Second,
		}),
	}
	c.Conversations = store.NewConversationStore(store.ConversationStoreConfig{
		Gateway: gw,
		Channel: ch,
		Cache:   cacheStore,
		Logger:  log,
	})
	return c, nil
}

// Connect brings the push channel up. Stores work without it; only live
// events are missed while disconnected.
func (c *Client) Connect(ctx context.Context) error {
	return c.Channel.Connect(ctx)
}

func (c *Client) Close() {
	c.Conversations.Close()
	c.Requests.Close()
	c.Channel.Close()
}
