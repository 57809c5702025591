package store

import (
	"context"

	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
)

// Settings are stored as two plain string keys. Defaults for missing keys
// are applied by the settings service, not here, so the store reflects
// exactly what the database holds.

// GetFormatTemplate retrieves the stored clipboard format template.
// Returns ok=false when no template has been saved.
func (s *Store) GetFormatTemplate(ctx context.Context) (string, bool, error) {
	if err := s.checkCtx(ctx); err != nil {
		return "", false, err
	}

	value, found, err := s.getString([]byte(keyFormatTemplate))
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.CodeStoreOperation, "get format template")
	}
	return value, found, nil
}

// SetFormatTemplate stores the clipboard format template.
func (s *Store) SetFormatTemplate(ctx context.Context, template string) error {
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	if err := s.setString([]byte(keyFormatTemplate), template); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "set format template")
	}
	return nil
}

// GetDateLinkURL retrieves the stored calendar link base URL.
// Returns ok=false when no URL has been saved.
func (s *Store) GetDateLinkURL(ctx context.Context) (string, bool, error) {
	if err := s.checkCtx(ctx); err != nil {
		return "", false, err
	}

	value, found, err := s.getString([]byte(keyDateLinkURL))
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.CodeStoreOperation, "get date link url")
	}
	return value, found, nil
}

// SetDateLinkURL stores the calendar link base URL.
func (s *Store) SetDateLinkURL(ctx context.Context, url string) error {
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	if err := s.setString([]byte(keyDateLinkURL), url); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "set date link url")
	}
	return nil
}
