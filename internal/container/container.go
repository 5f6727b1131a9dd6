package container

import (
	"fmt"

	"activityboard/internal/config"
	"activityboard/internal/service"
	"activityboard/internal/view"
	"activityboard/pkg/logger"
	"activityboard/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Services    *service.Services
	Renderer    *view.Renderer
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Redis is optional: banners fall back to process memory
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, keeping messages in memory")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, keeping messages in memory")
	}

	var messages service.MessageStore
	if redisClient != nil {
		messages = service.NewRedisMessageStore(redisClient, nil)
	} else {
		messages = service.NewMemoryMessageStore(nil)
	}

	api := service.NewActivityAPIClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	board := service.NewActivityBoard(api, messages, logger, service.WithMessageTTL(cfg.MessageTTL))

	renderer, err := view.NewRenderer()
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Services: &service.Services{
			Board: board,
		},
		Renderer: renderer,
	}, nil
}

// GetBoard returns the activity board
func (c *Container) GetBoard() *service.ActivityBoard {
	return c.Services.Board
}

// GetRenderer returns the template renderer
func (c *Container) GetRenderer() *view.Renderer {
	return c.Renderer
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the Redis connection when there is one
func (c *Container) Close() error {
	if c.RedisClient == nil {
		return nil
	}
	return c.RedisClient.Close()
}
