package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/toptenapp/topten-server/internal/domain"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNotificationPrefs",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/notifications",
		Summary:     "Get notification preferences",
		Tags:        []string{"Settings"},
	}, s.handleGetNotificationPrefs)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNotificationPrefs",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/notifications",
		Summary:     "Replace notification preferences",
		Tags:        []string{"Settings"},
	}, s.handleUpdateNotificationPrefs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDataContribution",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/data-contribution",
		Summary:     "Get data contribution opt-in",
		Tags:        []string{"Settings"},
	}, s.handleGetDataContribution)

	huma.Register(s.api, huma.Operation{
		OperationID: "setDataContribution",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/data-contribution",
		Summary:     "Set data contribution opt-in",
		Description: "The timestamp only changes when the choice does",
		Tags:        []string{"Settings"},
	}, s.handleSetDataContribution)
}

// NotificationPrefsOutput wraps notification preferences.
type NotificationPrefsOutput struct {
	Body domain.NotificationPrefs
}

// NotificationPrefsInput replaces notification preferences.
type NotificationPrefsInput struct {
	Body domain.NotificationPrefs
}

// DataContributionOutput wraps the opt-in record.
type DataContributionOutput struct {
	Body domain.DataContribution
}

// DataContributionRequest sets the opt-in.
type DataContributionRequest struct {
	OptedIn bool `json:"opted_in" doc:"Whether anonymous data may be shared"`
}

// DataContributionInput wraps the opt-in request.
type DataContributionInput struct {
	Body DataContributionRequest
}

func (s *Server) handleGetNotificationPrefs(_ context.Context, _ *struct{}) (*NotificationPrefsOutput, error) {
	return &NotificationPrefsOutput{Body: s.services.Settings.NotificationPrefs()}, nil
}

func (s *Server) handleUpdateNotificationPrefs(_ context.Context, input *NotificationPrefsInput) (*NotificationPrefsOutput, error) {
	return &NotificationPrefsOutput{Body: s.services.Settings.UpdateNotificationPrefs(input.Body)}, nil
}

func (s *Server) handleGetDataContribution(_ context.Context, _ *struct{}) (*DataContributionOutput, error) {
	return &DataContributionOutput{Body: s.services.Settings.DataContribution()}, nil
}

func (s *Server) handleSetDataContribution(_ context.Context, input *DataContributionInput) (*DataContributionOutput, error) {
	return &DataContributionOutput{Body: s.services.Settings.SetDataContribution(input.Body.OptedIn)}, nil
}
