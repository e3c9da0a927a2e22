package config

import (
	"fridgehero-server/internal/domain"
	"fridgehero-server/internal/repository"
	"fridgehero-server/internal/service"
	"fridgehero-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config                 domain.Config
	Logger                 domain.Logger
	SupabaseClient         domain.SupabaseClient
	SubscriptionRepository domain.SubscriptionRepository
	HouseholdRepository    domain.HouseholdRepository
	AuthService            domain.AuthService
	DowngradeEnforcer      domain.DowngradeEnforcer
	Stores                 *service.StoreRegistry
	Scheduler              *service.RefreshScheduler
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())
	clock := service.NewClock()

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(config, appLogger)

	// Initialize repositories
	subscriptionRepo := repository.NewSupabaseSubscriptionRepository(supabaseClient, appLogger)
	householdRepo := repository.NewSupabaseHouseholdRepository(supabaseClient, appLogger)

	// Initialize services
	authService := service.NewAuthService(supabaseClient, appLogger)
	enforcer := service.NewDowngradeEnforcer(householdRepo, clock, appLogger)
	stores := service.NewStoreRegistry(subscriptionRepo, householdRepo, enforcer, clock, appLogger, config.GetForegroundDebounce())
	scheduler := service.NewRefreshScheduler(stores, config.GetRefreshInterval(), clock, appLogger)

	return &Container{
		Config:                 config,
		Logger:                 appLogger,
		SupabaseClient:         supabaseClient,
		SubscriptionRepository: subscriptionRepo,
		HouseholdRepository:    householdRepo,
		AuthService:            authService,
		DowngradeEnforcer:      enforcer,
		Stores:                 stores,
		Scheduler:              scheduler,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}

// GetStores returns the entitlement store registry
func (c *Container) GetStores() *service.StoreRegistry {
	return c.Stores
}
