package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
)

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	env := newTestEnv(t, "")

	settings, err := env.settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultFormatTemplate, settings.FormatTemplate)
	assert.Equal(t, DefaultDateLinkURL, settings.DateLinkURL)
}

func TestSettings_UpdateAndBlankReset(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	updated, err := env.settings.Update(ctx, Settings{
		FormatTemplate: "[[title]] by [[author]]",
		DateLinkURL:    "https://calendar.example/?day=",
	})
	require.NoError(t, err)
	assert.Equal(t, "[[title]] by [[author]]", updated.FormatTemplate)

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[[title]] by [[author]]", settings.FormatTemplate)
	assert.Equal(t, "https://calendar.example/?day=", settings.DateLinkURL)

	// Blank values reset to defaults.
	updated, err = env.settings.Update(ctx, Settings{})
	require.NoError(t, err)
	assert.Equal(t, DefaultFormatTemplate, updated.FormatTemplate)
	assert.Equal(t, DefaultDateLinkURL, updated.DateLinkURL)
}

func TestRenderProductInfo_DefaultTemplate(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.settings.RenderProductInfo(context.Background(), domain.ProductInfo{
		ASIN:     "B000X1",
		Title:    "A Fine Story",
		Author:   "Jane Smith",
		Date:     "2026/8/28",
		ImageURL: "https://img.example/B000X1.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "{{aitem B000X1,A Fine Story,Jane Smith,2026/8/28,https://img.example/B000X1.jpg}}", out)
}

func TestRenderProductInfo_CollapsesWhitespace(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.settings.Update(ctx, Settings{FormatTemplate: "[[title]]|[[author]]"})
	require.NoError(t, err)

	out, err := env.settings.RenderProductInfo(ctx, domain.ProductInfo{
		Title:  "A\n   Fine\tStory ",
		Author: "  Jane   Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "A Fine Story|Jane Smith", out)
}

func TestCalendarLink(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	// Zero-padded input comes out unpadded.
	link, ok, err := env.settings.CalendarLink(ctx, "2026/08/03")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultDateLinkURL+"2026-8-3", link)

	// Dash separators and surrounding text are fine.
	link, ok, err = env.settings.CalendarLink(ctx, "released 2025-12-31 (first edition)")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultDateLinkURL+"2025-12-31", link)

	// No recognizable date.
	_, ok, err = env.settings.CalendarLink(ctx, "coming soon")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCalendarLink_CustomBase(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.settings.Update(ctx, Settings{DateLinkURL: "https://calendar.example/?day="})
	require.NoError(t, err)

	link, ok, err := env.settings.CalendarLink(ctx, "2026/1/5")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://calendar.example/?day=2026-1-5", link)
}
