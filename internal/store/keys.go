package store

// Key namespaces. These match the layout older installations wrote, so
// existing databases keep working without a migration.
const (
	// prefixAuthor namespaces author ratings, keyed by normalized name.
	prefixAuthor = "author:"
	// prefixProductAuthor namespaces the product-to-author resolution cache.
	prefixProductAuthor = "asin_author:"

	// keyFormatTemplate holds the clipboard format template.
	keyFormatTemplate = "format_template"
	// keyDateLinkURL holds the calendar link base URL.
	keyDateLinkURL = "date_link_url"
)

func keyProductRating(productID string) []byte {
	return []byte(productID)
}

func keyAuthorRating(name string) []byte {
	return []byte(prefixAuthor + name)
}

func keyProductAuthor(productID string) []byte {
	return []byte(prefixProductAuthor + productID)
}
