// Package domain defines the core rating model shared across services.
package domain

// Rating is a user judgement about a product or an author.
// The zero value means no rating is recorded.
type Rating string

// Rating values. Absence of a stored key is RatingUnset.
const (
	RatingUnset Rating = ""
	RatingGood  Rating = "good"
	RatingBad   Rating = "bad"
)

// IsSet reports whether the rating carries a judgement.
func (r Rating) IsSet() bool {
	return r == RatingGood || r == RatingBad
}

// ParseRating converts a wire value to a Rating.
// The empty string parses to RatingUnset; anything else unknown is rejected.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingGood, RatingBad, RatingUnset:
		return Rating(s), true
	default:
		return RatingUnset, false
	}
}

// Emphasis is the visual treatment of a product card, derived from the
// product rating and the author rating of that card.
type Emphasis string

// Emphasis values.
const (
	EmphasisNone        Emphasis = ""
	EmphasisGoodProduct Emphasis = "good-product"
	EmphasisBadProduct  Emphasis = "bad-product"
	EmphasisAuthorGood  Emphasis = "author-good"
)

// DeriveEmphasis resolves the display emphasis for a single card.
// Product ratings dominate author ratings. A bad author renders with the
// bad-product treatment; a good author only shows through when the
// product itself is unrated.
func DeriveEmphasis(product, author Rating) Emphasis {
	switch {
	case product == RatingGood:
		return EmphasisGoodProduct
	case product == RatingBad:
		return EmphasisBadProduct
	case author == RatingBad:
		return EmphasisBadProduct
	case author == RatingGood:
		return EmphasisAuthorGood
	default:
		return EmphasisNone
	}
}
