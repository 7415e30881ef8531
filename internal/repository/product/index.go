package product

import (
	"github.com/kailas-cloud/shopdex/internal/db"
)

// tagSeparator keeps commas inside attribute values from splitting tags.
const tagSeparator = "|"

// buildIndex defines the product FT index over hashes under prefix.
func buildIndex(name, prefix string) *db.IndexDefinition {
	b := db.NewIndex(name).
		Prefix(prefix).
		TextWeighted(fieldTitle, 2).
		Text(fieldDescription).
		Text(fieldBrandText).
		Text(fieldModelText).
		Numeric(fieldPrice).
		Numeric(fieldMRP).
		Numeric(fieldRating).
		Numeric(fieldStock).
		NumericSortable(fieldCreatedAt).
		Tag(fieldActive)
	for _, attr := range tagAttributes {
		b = b.TagWithOpts(attr, tagSeparator, false)
	}
	return b.MustBuild()
}
