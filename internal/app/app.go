package app

import (
	"context"

	"github.com/ebdruplab/semactl/internal/core/ports"
)

// Application wraps the deployer with run-level logging.
type Application struct {
	Deployer ports.Deployer
	Logger   ports.Logger
}

func NewApplication(deployer ports.Deployer, logger ports.Logger) *Application {
	return &Application{Deployer: deployer, Logger: logger}
}

// Run converges the project toward the manifest.
func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting deployment...")

	if err := a.Deployer.Run(ctx); err != nil {
		a.Logger.Errorf(ctx, err, "Deployment failed")
		return err
	}

	a.Logger.Infof(ctx, "Deployment completed successfully")
	return nil
}

// Destroy removes the manifest's project from the server.
func (a *Application) Destroy(ctx context.Context) error {
	a.Logger.Infof(ctx, "Destroying project...")

	if err := a.Deployer.Destroy(ctx); err != nil {
		a.Logger.Errorf(ctx, err, "Destroy failed")
		return err
	}

	a.Logger.Infof(ctx, "Project destroyed")
	return nil
}
