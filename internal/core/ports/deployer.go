package ports

import "context"

// Deployer reconciles a desired project description against a Semaphore
// server. Run converges the project toward the manifest; Destroy removes it.
type Deployer interface {
	Run(ctx context.Context) error
	Destroy(ctx context.Context) error
}
