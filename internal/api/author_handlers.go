package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List author ratings",
		Description: "Returns every stored author rating, sorted by name",
		Tags:        []string{"Authors"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "setAuthorRating",
		Method:      http.MethodPut,
		Path:        "/api/v1/authors",
		Summary:     "Set author rating",
		Description: "Stores a rating for an author directly, for the management page",
		Tags:        []string{"Authors"},
	}, s.handleSetAuthorRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkSetAuthorRatings",
		Method:      http.MethodPost,
		Path:        "/api/v1/authors/bulk",
		Summary:     "Bulk set author ratings",
		Description: "Stores one rating for every listed author name, for pasted lists on the management page",
		Tags:        []string{"Authors"},
	}, s.handleBulkSetAuthorRatings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthorRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{name}",
		Summary:     "Get author rating",
		Description: "Returns the effective rating for an author, including the legacy fallback",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthorRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAuthorRating",
		Method:      http.MethodDelete,
		Path:        "/api/v1/authors/{name}",
		Summary:     "Remove author rating",
		Description: "Clears the stored rating for an author",
		Tags:        []string{"Authors"},
	}, s.handleRemoveAuthorRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleAuthorRating",
		Method:      http.MethodPost,
		Path:        "/api/v1/authors/rating/toggle",
		Summary:     "Toggle author rating",
		Description: "Applies a rating press to an author; pressing the stored rating clears it",
		Tags:        []string{"Authors"},
	}, s.handleToggleAuthorRating)
}

// === DTOs ===

type AuthorRatingResponse struct {
	Name   string        `json:"name" doc:"Normalized author name"`
	Rating domain.Rating `json:"rating" doc:"Rating, empty when unset"`
}

type ListAuthorsOutput struct {
	Body ListAuthorsResponse
}

type ListAuthorsResponse struct {
	Authors []AuthorRatingResponse `json:"authors" doc:"Stored author ratings"`
}

type SetAuthorRatingInput struct {
	Body SetAuthorRatingRequest
}

type SetAuthorRatingRequest struct {
	Name   string        `json:"name" minLength:"1" doc:"Author name, any width variant"`
	Rating domain.Rating `json:"rating" enum:"good,bad" doc:"Rating to store"`
}

type BulkSetAuthorRatingsInput struct {
	Body BulkSetAuthorRatingsRequest
}

type BulkSetAuthorRatingsRequest struct {
	Names  []string      `json:"names" minItems:"1" doc:"Author names, any width variant; blanks and duplicates are skipped"`
	Rating domain.Rating `json:"rating" enum:"good,bad" doc:"Rating to store for every name"`
}

type BulkSetAuthorRatingsOutput struct {
	Body BulkSetAuthorRatingsResponse
}

type BulkSetAuthorRatingsResponse struct {
	Stored []string      `json:"stored" doc:"Normalized names that were stored, in input order"`
	Rating domain.Rating `json:"rating" doc:"Rating that was stored"`
}

type AuthorNameInput struct {
	Name string `path:"name" doc:"Author name, any width variant"`
}

type AuthorRatingOutput struct {
	Body AuthorRatingResponse
}

type ToggleAuthorRatingInput struct {
	Body ToggleAuthorRatingRequest
}

type ToggleAuthorRatingRequest struct {
	Name   string        `json:"name" minLength:"1" doc:"Author name, any width variant"`
	Rating domain.Rating `json:"rating" enum:"good,bad" doc:"Rating button pressed"`
}

// === Handlers ===

func (s *Server) handleListAuthors(ctx context.Context, _ *struct{}) (*ListAuthorsOutput, error) {
	authors, err := s.services.Rating.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]AuthorRatingResponse, len(authors))
	for i, a := range authors {
		resp[i] = AuthorRatingResponse{Name: a.Name, Rating: a.Rating}
	}

	return &ListAuthorsOutput{Body: ListAuthorsResponse{Authors: resp}}, nil
}

func (s *Server) handleSetAuthorRating(ctx context.Context, input *SetAuthorRatingInput) (*AuthorRatingOutput, error) {
	if err := s.services.Rating.SetAuthorRating(ctx, input.Body.Name, input.Body.Rating); err != nil {
		return nil, err
	}

	return &AuthorRatingOutput{Body: AuthorRatingResponse{
		Name:   normalize.Name(input.Body.Name),
		Rating: input.Body.Rating,
	}}, nil
}

func (s *Server) handleBulkSetAuthorRatings(ctx context.Context, input *BulkSetAuthorRatingsInput) (*BulkSetAuthorRatingsOutput, error) {
	stored, err := s.services.Rating.BulkSetAuthorRatings(ctx, input.Body.Names, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &BulkSetAuthorRatingsOutput{Body: BulkSetAuthorRatingsResponse{
		Stored: stored,
		Rating: input.Body.Rating,
	}}, nil
}

func (s *Server) handleGetAuthorRating(ctx context.Context, input *AuthorNameInput) (*AuthorRatingOutput, error) {
	rating, err := s.services.Rating.EffectiveAuthorRating(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	return &AuthorRatingOutput{Body: AuthorRatingResponse{
		Name:   normalize.Name(input.Name),
		Rating: rating,
	}}, nil
}

func (s *Server) handleRemoveAuthorRating(ctx context.Context, input *AuthorNameInput) (*struct{}, error) {
	if err := s.services.Rating.RemoveAuthorRating(ctx, input.Name); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleToggleAuthorRating(ctx context.Context, input *ToggleAuthorRatingInput) (*AuthorRatingOutput, error) {
	rating, err := s.services.Rating.ToggleAuthor(ctx, input.Body.Name, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &AuthorRatingOutput{Body: AuthorRatingResponse{
		Name:   normalize.Name(input.Body.Name),
		Rating: rating,
	}}, nil
}
