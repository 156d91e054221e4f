package publisher

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

// Registry holds one publisher per platform. The platform enum is closed,
// so lookup failure means a platform was registered without its shim.
type Registry struct {
	publishers map[models.Platform]Publisher
	logger     *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		publishers: make(map[models.Platform]Publisher),
		logger:     logger,
	}
}

func (r *Registry) Register(p Publisher) error {
	platform := p.Platform()
	if !platform.Valid() {
		return fmt.Errorf("publisher reports unknown platform %q", platform)
	}
	if _, exists := r.publishers[platform]; exists {
		return fmt.Errorf("publisher for platform %s already registered", platform)
	}

	r.publishers[platform] = p
	r.logger.Info("Publisher registered", zap.String("platform", platform.String()))
	return nil
}

func (r *Registry) Get(platform models.Platform) (Publisher, error) {
	p, exists := r.publishers[platform]
	if !exists {
		return nil, fmt.Errorf("publisher for platform %s not found", platform)
	}
	return p, nil
}

// Platforms returns the platforms with a registered publisher, in enum order.
func (r *Registry) Platforms() []models.Platform {
	var platforms []models.Platform
	for _, p := range models.AllPlatforms() {
		if _, ok := r.publishers[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}
