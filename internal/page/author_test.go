package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "plain author span",
			body: `<html><body><div class="author"><a href="/a/1">Jane Smith</a></div></body></html>`,
			want: "Jane Smith",
		},
		{
			name: "qualifier in ascii parens dropped",
			body: `<div class="author">Jane Smith (Author)</div>`,
			want: "Jane Smith",
		},
		{
			name: "qualifier in fullwidth bracket dropped",
			body: `<div class="author">Ｊａｎｅ　Ｓｍｉｔｈ［著］</div>`,
			want: "Jane Smith",
		},
		{
			name: "qualifier in square bracket dropped",
			body: `<div class="author">John Doe [Illustrator], Extra</div>`,
			want: "John Doe",
		},
		{
			name: "earliest bracket wins",
			body: `<div class="author">John Doe （著） (Author)</div>`,
			want: "John Doe",
		},
		{
			name: "author among other classes",
			body: `<div class="byline author contributor"><span>John</span> <span>Doe</span></div>`,
			want: "John Doe",
		},
		{
			name: "first author region wins",
			body: `<p class="author">Jane Smith</p><p class="author">John Doe</p>`,
			want: "Jane Smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAuthor([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAuthor_NoInformation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no author region",
			body: `<html><body><h1>Product title</h1></body></html>`,
		},
		{
			name: "author region empty",
			body: `<div class="author">   </div>`,
		},
		{
			name: "name entirely a qualifier",
			body: `<div class="author">(Author)</div>`,
		},
		{
			name: "class substring does not match",
			body: `<div class="authority">Jane Smith</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractAuthor([]byte(tt.body))
			assert.ErrorIs(t, err, ErrNoAuthor)
		})
	}
}

func TestCleanAuthorName(t *testing.T) {
	assert.Equal(t, "Jane Smith", CleanAuthorName("  Ｊａｎｅ　Ｓｍｉｔｈ (Author) "))
	assert.Equal(t, "", CleanAuthorName("［著］"))
	assert.Equal(t, "John Doe", CleanAuthorName("John Doe"))
}
