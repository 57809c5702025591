package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "registerView",
		Method:      http.MethodPost,
		Path:        "/api/v1/views",
		Summary:     "Register rendered container",
		Description: "Registers a product container a client has rendered and returns its painted state",
		Tags:        []string{"Views"},
	}, s.handleRegisterView)

	huma.Register(s.api, huma.Operation{
		OperationID: "listViews",
		Method:      http.MethodGet,
		Path:        "/api/v1/views",
		Summary:     "List rendered containers",
		Description: "Returns every registered container with its current markers",
		Tags:        []string{"Views"},
	}, s.handleListViews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{id}",
		Summary:     "Get rendered container",
		Description: "Returns a registered container by handle",
		Tags:        []string{"Views"},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeView",
		Method:      http.MethodDelete,
		Path:        "/api/v1/views/{id}",
		Summary:     "Remove rendered container",
		Description: "Unregisters a container, e.g. when a client page unloads",
		Tags:        []string{"Views"},
	}, s.handleRemoveView)

	huma.Register(s.api, huma.Operation{
		OperationID: "hoverView",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/hover",
		Summary:     "Report hover",
		Description: "Starts the debounced author resolution for a hovered container",
		Tags:        []string{"Views"},
	}, s.handleHoverView)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveView",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/leave",
		Summary:     "Report hover end",
		Description: "Cancels a pending author resolution when the pointer leaves a container",
		Tags:        []string{"Views"},
	}, s.handleLeaveView)
}

// === DTOs ===

type RegisterViewRequest struct {
	ProductID string `json:"product_id" minLength:"1" doc:"Product ID"`
	Author    string `json:"author,omitempty" doc:"Author name as rendered, if the container shows one"`
	DetailURL string `json:"detail_url,omitempty" doc:"Product detail page URL"`
}

type RegisterViewInput struct {
	Body RegisterViewRequest
}

type ViewResponse struct {
	ID            string          `json:"id" doc:"Container handle"`
	ProductID     string          `json:"product_id" doc:"Product ID"`
	Author        string          `json:"author,omitempty" doc:"Author label, once known"`
	ProductRating domain.Rating   `json:"product_rating" doc:"Product marker"`
	AuthorRating  domain.Rating   `json:"author_rating" doc:"Author marker"`
	Emphasis      domain.Emphasis `json:"emphasis" doc:"Derived emphasis"`
}

type ViewOutput struct {
	Body ViewResponse
}

type ListViewsOutput struct {
	Body ListViewsResponse
}

type ListViewsResponse struct {
	Views []ViewResponse `json:"views" doc:"Registered containers"`
}

type ViewIDInput struct {
	ID string `path:"id" doc:"Container handle"`
}

// === Handlers ===

func mapViewResponse(c view.Container) ViewResponse {
	resp := ViewResponse{
		ID:            c.ID(),
		ProductID:     c.ProductID(),
		ProductRating: c.ProductMarker(),
		AuthorRating:  c.AuthorMarker(),
		Emphasis:      c.Emphasis(),
	}
	if label, ok := c.AuthorLabel(); ok {
		resp.Author = label
	}
	return resp
}

func (s *Server) handleRegisterView(ctx context.Context, input *RegisterViewInput) (*ViewOutput, error) {
	c, err := s.registry.Add(input.Body.ProductID, input.Body.Author, input.Body.DetailURL)
	if err != nil {
		return nil, err
	}

	// Registration subscribers paint the container synchronously, so the
	// response already carries stored markers.
	return &ViewOutput{Body: mapViewResponse(c)}, nil
}

func (s *Server) handleListViews(ctx context.Context, _ *struct{}) (*ListViewsOutput, error) {
	containers := s.registry.Containers()

	resp := make([]ViewResponse, len(containers))
	for i, c := range containers {
		resp[i] = mapViewResponse(c)
	}

	return &ListViewsOutput{Body: ListViewsResponse{Views: resp}}, nil
}

func (s *Server) handleGetView(ctx context.Context, input *ViewIDInput) (*ViewOutput, error) {
	c, ok := s.registry.Container(input.ID)
	if !ok {
		return nil, apperrors.NotFoundf("container %q not found", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(c)}, nil
}

func (s *Server) handleRemoveView(ctx context.Context, input *ViewIDInput) (*struct{}, error) {
	if !s.registry.Remove(input.ID) {
		return nil, apperrors.NotFoundf("container %q not found", input.ID)
	}

	// A removed container can never receive a late resolution.
	s.services.Resolver.CancelHover(input.ID)
	return &struct{}{}, nil
}

func (s *Server) handleHoverView(ctx context.Context, input *ViewIDInput) (*struct{}, error) {
	if err := s.services.Resolver.ScheduleHover(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleLeaveView(ctx context.Context, input *ViewIDInput) (*struct{}, error) {
	if _, ok := s.registry.Container(input.ID); !ok {
		return nil, apperrors.NotFoundf("container %q not found", input.ID)
	}
	s.services.Resolver.CancelHover(input.ID)
	return &struct{}{}, nil
}
