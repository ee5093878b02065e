package domain

import "fmt"

// Category is a career-field preference drawn from a closed set.
type Category string

const (
	CategoryHealthcare        Category = "healthcare"
	CategoryIT                Category = "it"
	CategoryBusiness          Category = "business"
	CategoryLawPolitics       Category = "law_politics"
	CategoryEducationResearch Category = "education_research"
	CategoryArtsDesign        Category = "arts_design"
	CategoryEngineering       Category = "engineering"
	CategoryMedia             Category = "media"
	CategoryServiceSales      Category = "service_sales"
	CategoryOther             Category = "other"
)

// Categories lists every selectable category in display order.
var Categories = []CategoryOption{
	{CategoryHealthcare, "Healthcare / Medicine"},
	{CategoryIT, "IT / Computing"},
	{CategoryBusiness, "Business / Economics"},
	{CategoryLawPolitics, "Law / Politics"},
	{CategoryEducationResearch, "Education / Research"},
	{CategoryArtsDesign, "Arts / Design"},
	{CategoryEngineering, "Engineering / Technology"},
	{CategoryMedia, "Journalism / Media"},
	{CategoryServiceSales, "Service / Sales"},
	{CategoryOther, "Other"},
}

// CategoryOption pairs a category with its display label.
type CategoryOption struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// IsValid reports whether c belongs to the closed set.
func (c Category) IsValid() bool {
	for _, opt := range Categories {
		if opt.Value == c {
			return true
		}
	}
	return false
}

// ParseCategory validates a category value. The empty string is reported as
// unset rather than unknown so callers can phrase the error.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", fmt.Errorf("category is unset")
	}
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) String() string { return string(c) }

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	for _, opt := range Categories {
		if opt.Value == c {
			return opt.Label
		}
	}
	return string(c)
}
