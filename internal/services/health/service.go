package health

import (
	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/respond"
)

// Service reports process liveness.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness payload.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": "ok"}
}

// RegisterRoutes attaches GET /health.
func (s *Service) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, s.Status())
	})
}
