package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kuwavkdb/am2vkdb/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the format template and calendar link settings",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Saves new settings; blank values reset to defaults",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)
}

// === DTOs ===

type SettingsResponse struct {
	FormatTemplate string `json:"format_template" doc:"Clipboard format template with [[field]] placeholders"`
	DateLinkURL    string `json:"date_link_url" doc:"Calendar edit link base URL"`
}

type SettingsOutput struct {
	Body SettingsResponse
}

type UpdateSettingsInput struct {
	Body SettingsResponse
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	settings, err := s.services.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: SettingsResponse{
		FormatTemplate: settings.FormatTemplate,
		DateLinkURL:    settings.DateLinkURL,
	}}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	updated, err := s.services.Settings.Update(ctx, service.Settings{
		FormatTemplate: input.Body.FormatTemplate,
		DateLinkURL:    input.Body.DateLinkURL,
	})
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: SettingsResponse{
		FormatTemplate: updated.FormatTemplate,
		DateLinkURL:    updated.DateLinkURL,
	}}, nil
}
