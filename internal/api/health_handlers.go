package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/store"
)

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
	Sync       *store.PersistStatus       `json:"sync,omitempty" doc:"Background persistence status"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{
		Status:     statusHealthy,
		Components: make(map[string]ComponentHealth, 3),
	}

	add := func(name string, h ComponentHealth) {
		resp.Components[name] = h
		switch {
		case h.Status == statusUnhealthy:
			resp.Status = statusUnhealthy
		case h.Status == statusDegraded && resp.Status == statusHealthy:
			resp.Status = statusDegraded
		}
	}

	add("database", s.checkDatabase(ctx))
	add("search", s.checkSearchIndex())

	persist, status := s.checkPersister()
	add("persistence", persist)
	resp.Sync = status

	return &HealthOutput{Body: resp}, nil
}

// checkDatabase verifies BadgerDB is readable.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.services.Store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}

	start := time.Now()
	_, err := s.services.Store.Raw(ctx, store.KeyLists)
	latency := time.Since(start)

	// A fresh install has no lists yet; that still proves the DB answers.
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency.String(), Message: "database read failed"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services.Search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search index not configured"}
	}

	start := time.Now()
	count, err := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency.String(), Message: "search index unreachable"}
	}
	if count == 0 {
		return ComponentHealth{Status: statusDegraded, Latency: latency.String(), Message: "search index empty"}
	}
	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
		Message: strconv.FormatUint(count, 10) + " documents",
	}
}

// checkPersister reports write-behind health. Failed writes degrade, they never make the server unhealthy.
func (s *Server) checkPersister() (ComponentHealth, *store.PersistStatus) {
	if s.services.Persister == nil {
		return ComponentHealth{Status: statusDegraded, Message: "persister not configured"}, nil
	}

	st := s.services.Persister.Status()
	switch st.State {
	case store.SyncStateFailed:
		return ComponentHealth{Status: statusDegraded, Message: "last write failed: " + st.LastError}, &st
	case store.SyncStatePending:
		return ComponentHealth{Status: statusHealthy, Message: strconv.Itoa(st.Pending) + " pending writes"}, &st
	default:
		return ComponentHealth{Status: statusHealthy}, &st
	}
}
