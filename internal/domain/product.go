package domain

// ProductInfo carries the product fields available to the clipboard template.
type ProductInfo struct {
	ASIN     string `json:"asin"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url"`
}
