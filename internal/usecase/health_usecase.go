package usecase

import (
	"context"
	"time"

	"asperro-contact-backend/internal/domain"
)

// HealthCheck probes one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

type healthUsecase struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthUsecase builds a health usecase over the given dependency checks.
// Optional dependencies that are not configured are simply left out.
func NewHealthUsecase(checks map[string]HealthCheck) domain.HealthUsecase {
	return &healthUsecase{checks: checks, timeout: 2 * time.Second}
}

// Check runs every probe and reports "ok" or the error text per dependency
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"api": "ok"}
	healthy := true

	for name, check := range u.checks {
		checkCtx, cancel := context.WithTimeout(ctx, u.timeout)
		err := check(checkCtx)
		cancel()

		if err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	return status, healthy
}
