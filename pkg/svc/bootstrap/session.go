package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
)

// Session carries what one setup run produced from step to step.
type Session struct {
	Config      *v1alpha1.Config
	KubeContext string
	Port        int
	URL         string
	Password    string
	// Manual is set when the tunnel or login failed and the user must finish by hand.
	Manual bool

	tunnel    Tunnel
	closeOnce sync.Once
	closeErr  error
}

// Server is the host:port the argocd CLI talks to.
func (s *Session) Server() string {
	return fmt.Sprintf("localhost:%d", s.Port)
}

// Hold keeps the tunnel open until ctx is cancelled. Without a tunnel it returns at once.
func (s *Session) Hold(ctx context.Context) error {
	if s == nil || s.tunnel == nil || s.Manual {
		return nil
	}

	err := s.tunnel.Hold(ctx)
	if err != nil {
		return fmt.Errorf("hold tunnel: %w", err)
	}

	return nil
}

// Close terminates the tunnel. Only the first call has an effect.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		if s.tunnel != nil {
			s.closeErr = s.tunnel.Close()
		}
	})

	return s.closeErr
}
