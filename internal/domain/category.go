package domain

// Category is the closed set of expense categories. The canonical label is
// the wire representation used both in CSV files and in the model's JSON
// output, so the raw values are the Japanese labels the original data uses.
type Category string

const (
	CategoryFood          Category = "食費"
	CategoryDaily         Category = "生活・日用品"
	CategoryTransport     Category = "交通費"
	CategoryEntertainment Category = "エンタメ"
	CategoryHealth        Category = "健康・美容"
	CategoryFixed         Category = "固定費"
	CategoryInvestment    Category = "自己投資"
	CategorySpecial       Category = "特別支出"
	CategoryOther         Category = "その他"
)

// categoryIcons maps each category to its presentation icon tag. The tags are
// owned by the UI layer; they live here only so the enum stays in one place.
var categoryIcons = map[Category]string{
	CategoryFood:          "fork.knife",
	CategoryDaily:         "cart.fill",
	CategoryTransport:     "tram.fill",
	CategoryEntertainment: "gamecontroller.fill",
	CategoryHealth:        "heart.text.square.fill",
	CategoryFixed:         "house.fill",
	CategoryInvestment:    "book.closed.fill",
	CategorySpecial:       "gift.fill",
	CategoryOther:         "ellipsis.circle",
}

// Categories returns all variants in presentation order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryDaily,
		CategoryTransport,
		CategoryEntertainment,
		CategoryHealth,
		CategoryFixed,
		CategoryInvestment,
		CategorySpecial,
		CategoryOther,
	}
}

// CategoryFromLabel maps an arbitrary string to a Category. The mapping is
// total: an exact match on a canonical label yields that variant, anything
// else yields CategoryOther. Malformed category strings from untrusted input
// degrade gracefully instead of failing the row.
func CategoryFromLabel(label string) Category {
	c := Category(label)
	if _, ok := categoryIcons[c]; ok {
		return c
	}
	return CategoryOther
}

// Label returns the canonical wire label.
func (c Category) Label() string {
	return string(c)
}

// Icon returns the presentation icon tag for the category.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

// Valid reports whether c is one of the nine closed variants.
func (c Category) Valid() bool {
	_, ok := categoryIcons[c]
	return ok
}
