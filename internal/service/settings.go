package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/store"
)

// Defaults applied when no setting has been saved.
const (
	DefaultFormatTemplate = "{{aitem [[asin]],[[title]],[[author]],[[date]],[[image_url]]}}"
	DefaultDateLinkURL    = "https://www.vkdb.jp/wiki.cgi?action=EDIT&page=%A5%AB%A5%EC%A5%F3%A5%C0%A1%BC/"
)

// Settings are the user-tunable values for clipboard output and the
// calendar link.
type Settings struct {
	FormatTemplate string `json:"format_template"`
	DateLinkURL    string `json:"date_link_url"`
}

// dateRe matches a release date anywhere in a date string, with either
// slash or dash separators and without requiring zero padding.
var dateRe = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)

// SettingsService manages the format template and calendar link settings
// and renders product info through them.
type SettingsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(st *store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:  st,
		logger: logger,
	}
}

// Get returns the current settings, substituting defaults for anything
// never saved.
func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	settings := Settings{
		FormatTemplate: DefaultFormatTemplate,
		DateLinkURL:    DefaultDateLinkURL,
	}

	if template, found, err := s.store.GetFormatTemplate(ctx); err != nil {
		return Settings{}, err
	} else if found {
		settings.FormatTemplate = template
	}

	if url, found, err := s.store.GetDateLinkURL(ctx); err != nil {
		return Settings{}, err
	} else if found {
		settings.DateLinkURL = url
	}

	return settings, nil
}

// Update saves new settings. Blank values reset the setting to its default.
func (s *SettingsService) Update(ctx context.Context, settings Settings) (Settings, error) {
	template := strings.TrimSpace(settings.FormatTemplate)
	if template == "" {
		template = DefaultFormatTemplate
	}
	if err := s.store.SetFormatTemplate(ctx, template); err != nil {
		return Settings{}, err
	}

	url := strings.TrimSpace(settings.DateLinkURL)
	if url == "" {
		url = DefaultDateLinkURL
	}
	if err := s.store.SetDateLinkURL(ctx, url); err != nil {
		return Settings{}, err
	}

	s.logger.Info("settings updated")
	return Settings{FormatTemplate: template, DateLinkURL: url}, nil
}

// RenderProductInfo fills the format template with a product's fields.
// Field values have whitespace runs collapsed so multi-line markup text
// cannot break the single-line output.
func (s *SettingsService) RenderProductInfo(ctx context.Context, info domain.ProductInfo) (string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}

	replacer := strings.NewReplacer(
		"[[asin]]", sanitizeField(info.ASIN),
		"[[title]]", sanitizeField(info.Title),
		"[[author]]", sanitizeField(info.Author),
		"[[date]]", sanitizeField(info.Date),
		"[[image_url]]", sanitizeField(info.ImageURL),
	)
	return replacer.Replace(settings.FormatTemplate), nil
}

// CalendarLink builds the calendar edit link for a product's release date.
// Returns ok=false when the date string holds no recognizable date.
func (s *SettingsService) CalendarLink(ctx context.Context, date string) (string, bool, error) {
	m := dateRe.FindStringSubmatch(date)
	if m == nil {
		return "", false, nil
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	settings, err := s.Get(ctx)
	if err != nil {
		return "", false, err
	}

	// The calendar page names days without zero padding.
	return fmt.Sprintf("%s%d-%d-%d", settings.DateLinkURL, year, month, day), true, nil
}

// sanitizeField collapses whitespace runs, including newlines, to single
// spaces.
func sanitizeField(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
