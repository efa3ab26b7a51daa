package di

import (
	"context"
	"fmt"
	"sync"

	"summitcess-gateway/internal/booking"
	bookingcfg "summitcess-gateway/internal/booking/config"
	"summitcess-gateway/internal/session"
	"summitcess-gateway/internal/session/adapter/persistence/redisstore"
	sessioncfg "summitcess-gateway/internal/session/config"
	"summitcess-gateway/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Container represents a dependency injection container with proper
// lifecycle management for the gateway's modules.
type Container struct {
	mu sync.RWMutex
	// Module instances
	SessionModule *session.Module
	BookingModule *booking.Module
	// Infrastructure
	RedisClient *redis.Client
	TokenStore  *redisstore.TokenStore
	// Configuration
	SessionConfig *sessioncfg.Config
	BookingConfig *bookingcfg.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container.
func NewContainer() *Container {
	return &Container{}
}

// InitializeSession initializes the Redis token store and the session module.
func (c *Container) InitializeSession(redisClient *redis.Client, cfg *sessioncfg.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	c.RedisClient = redisClient
	c.SessionConfig = cfg
	c.TokenStore = redisstore.NewTokenStore(redisClient, cfg.SessionTTL, c.Logger)
	c.SessionModule = session.NewModule(c.TokenStore, cfg, c.Logger)
	return nil
}

// InitializeBooking initializes the booking module on top of the shared
// token store.
func (c *Container) InitializeBooking(cfg *bookingcfg.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SessionModule == nil {
		return fmt.Errorf("session module must be initialized before booking module")
	}

	c.BookingConfig = cfg
	c.BookingModule = booking.NewModule(c.TokenStore, cfg, c.Logger)
	return nil
}

// HealthCheck verifies the container's backing services.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.TokenStore == nil {
		return fmt.Errorf("token store not initialized")
	}
	if err := c.TokenStore.Ping(ctx); err != nil {
		return fmt.Errorf("token store unhealthy: %w", err)
	}
	return nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}
