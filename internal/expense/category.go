package expense

// Category is an entry of the fixed category table.
type Category struct {
	Name      string
	Icon      string
	Color     string
	DarkColor string
}

const defaultCategoryColor = "#6B7280"

var categories = []Category{
	{Name: "食費", Icon: "🍽️", Color: "#F59E0B", DarkColor: "#FBBF24"},
	{Name: "交通費", Icon: "🚃", Color: "#3B82F6", DarkColor: "#60A5FA"},
	{Name: "娯楽費", Icon: "🎮", Color: "#EF4444", DarkColor: "#F87171"},
	{Name: "光熱費", Icon: "💡", Color: "#FBBF24", DarkColor: "#FCD34D"},
	{Name: "通信費", Icon: "📱", Color: "#8B5CF6", DarkColor: "#A78BFA"},
	{Name: "医療費", Icon: "🏥", Color: "#10B981", DarkColor: "#34D399"},
	{Name: "その他", Icon: "📦", Color: "#6B7280", DarkColor: "#9CA3AF"},
}

// Categories returns the category table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// CategoryNames returns the names of the category table in display order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	return names
}

// LookupCategory resolves display metadata for a category name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}

	return Category{}, false
}

// IsKnownCategory reports whether name is in the category table.
func IsKnownCategory(name string) bool {
	_, ok := LookupCategory(name)
	return ok
}

// CategoryIcon returns the icon for name, or the "other" icon for unknown names.
func CategoryIcon(name string) string {
	if c, ok := LookupCategory(name); ok {
		return c.Icon
	}

	return "📦"
}

// CategoryColor returns the theme colour for name.
func CategoryColor(name string, dark bool) string {
	c, ok := LookupCategory(name)
	if !ok {
		return defaultCategoryColor
	}

	if dark {
		return c.DarkColor
	}

	return c.Color
}
