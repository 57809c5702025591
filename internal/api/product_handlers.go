package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProductRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/rating",
		Summary:     "Get product rating",
		Description: "Returns the stored rating for a product",
		Tags:        []string{"Products"},
	}, s.handleGetProductRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleProductRating",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{id}/rating/toggle",
		Summary:     "Toggle product rating",
		Description: "Applies a rating press to a product; pressing the current rating clears it",
		Tags:        []string{"Products"},
	}, s.handleToggleProductRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProductInfo",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{id}/info",
		Summary:     "Render product info",
		Description: "Renders the clipboard text and calendar link for a product, unless suppressed by a bad rating",
		Tags:        []string{"Products"},
	}, s.handleGetProductInfo)
}

// === DTOs ===

type ProductRatingResponse struct {
	ProductID string        `json:"product_id" doc:"Product ID"`
	Rating    domain.Rating `json:"rating" doc:"Stored rating, empty when unset"`
}

type GetProductRatingInput struct {
	ID string `path:"id" doc:"Product ID"`
}

type ProductRatingOutput struct {
	Body ProductRatingResponse
}

type ToggleRatingRequest struct {
	Rating domain.Rating `json:"rating" enum:"good,bad" doc:"Rating button pressed"`
}

type ToggleProductRatingInput struct {
	ID   string `path:"id" doc:"Product ID"`
	Body ToggleRatingRequest
}

type ProductInfoRequest struct {
	Title    string `json:"title,omitempty" doc:"Product title as rendered"`
	Author   string `json:"author,omitempty" doc:"Author name as rendered"`
	Date     string `json:"date,omitempty" doc:"Release date text as rendered"`
	ImageURL string `json:"image_url,omitempty" doc:"Cover image URL"`
}

type GetProductInfoInput struct {
	ID   string `path:"id" doc:"Product ID"`
	Body ProductInfoRequest
}

type ProductInfoResponse struct {
	Visible  bool   `json:"visible" doc:"False when a bad rating suppresses the info"`
	Text     string `json:"text,omitempty" doc:"Clipboard text rendered from the format template"`
	DateLink string `json:"date_link,omitempty" doc:"Calendar edit link for the release date"`
}

type ProductInfoOutput struct {
	Body ProductInfoResponse
}

// === Handlers ===

func (s *Server) handleGetProductRating(ctx context.Context, input *GetProductRatingInput) (*ProductRatingOutput, error) {
	rating, err := s.services.Rating.GetProductRating(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProductRatingOutput{Body: ProductRatingResponse{
		ProductID: input.ID,
		Rating:    rating,
	}}, nil
}

func (s *Server) handleToggleProductRating(ctx context.Context, input *ToggleProductRatingInput) (*ProductRatingOutput, error) {
	rating, err := s.services.Rating.ToggleProduct(ctx, input.ID, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &ProductRatingOutput{Body: ProductRatingResponse{
		ProductID: input.ID,
		Rating:    rating,
	}}, nil
}

func (s *Server) handleGetProductInfo(ctx context.Context, input *GetProductInfoInput) (*ProductInfoOutput, error) {
	visible, err := s.services.Rating.InfoVisible(ctx, input.ID, input.Body.Author)
	if err != nil {
		return nil, err
	}
	if !visible {
		return &ProductInfoOutput{Body: ProductInfoResponse{Visible: false}}, nil
	}

	text, err := s.services.Settings.RenderProductInfo(ctx, domain.ProductInfo{
		ASIN:     input.ID,
		Title:    input.Body.Title,
		Author:   input.Body.Author,
		Date:     input.Body.Date,
		ImageURL: input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	resp := ProductInfoResponse{Visible: true, Text: text}

	if input.Body.Date != "" {
		link, ok, err := s.services.Settings.CalendarLink(ctx, input.Body.Date)
		if err != nil {
			return nil, err
		}
		if ok {
			resp.DateLink = link
		}
	}

	return &ProductInfoOutput{Body: resp}, nil
}
