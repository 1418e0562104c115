package domain

// Product represents a catalogue entry in the product index.
// Products are created by the external catalogue pipeline at ingest
// time and are immutable from shopquery's point of view.
type Product struct {
	// ID is the unique identifier for the product.
	ID string

	// Name is the product display name.
	Name string

	// Description is the full marketing description.
	Description string

	// Category is the product category (e.g. "Laptops").
	Category string

	// Price is the list price in the catalogue currency.
	Price float64

	// Features is a short list of headline features.
	Features []string

	// Specifications contains technical key-value specs.
	Specifications map[string]string

	// Reviews holds aggregated customer review data, if any.
	Reviews *ProductReviews
}

// ProductReviews holds aggregated customer review data for a product.
type ProductReviews struct {
	// Rating is the average review score out of 5.
	Rating float64

	// Count is the number of reviews aggregated.
	Count int

	// Summary is a short text summary of review sentiment.
	Summary string
}
