package entity

// BadgeCategory is one of the settings groups that shows an enabled-count badge.
type BadgeCategory string

const (
	BadgeAnimation     BadgeCategory = "animation"
	BadgeAccessibility BadgeCategory = "accessibility"
	BadgePrivacy       BadgeCategory = "privacy"
)

var badgeFields = map[BadgeCategory][2]Field{
	BadgeAnimation:     {FieldEnableAnimations, FieldReducedMotion},
	BadgeAccessibility: {FieldHighContrast, FieldScreenReader},
	BadgePrivacy:       {FieldAnalytics, FieldCookies},
}

// AllBadgeCategories returns the badge categories in display order.
func AllBadgeCategories() []BadgeCategory {
	return []BadgeCategory{BadgeAnimation, BadgeAccessibility, BadgePrivacy}
}

// Fields returns the two boolean fields counted by the category.
func (c BadgeCategory) Fields() [2]Field {
	return badgeFields[c]
}

// BadgeFor returns the category a field is counted in, if any.
func BadgeFor(field Field) (BadgeCategory, bool) {
	for _, c := range AllBadgeCategories() {
		fields := badgeFields[c]
		if fields[0] == field || fields[1] == field {
			return c, true
		}
	}
	return "", false
}

// BadgeState is what a badge indicator displays.
type BadgeState struct {
	Category BadgeCategory
	Count    int
	Visible  bool
}

// NewBadgeState derives the indicator state from a count.
func NewBadgeState(category BadgeCategory, count int) BadgeState {
	return BadgeState{Category: category, Count: count, Visible: count > 0}
}
