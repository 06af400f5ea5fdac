package availability

// Category is an IEC operating-state classification attached to a status event.
type Category string

const (
	CategoryFullPerformance        Category = "Full Performance"
	CategoryTechnicalStandby       Category = "Technical Standby"
	CategoryOutOfEnvironmentalSpec Category = "Out of Environmental Specification"
	CategoryForcedOutage           Category = "Forced outage"
	CategoryScheduledMaintenance   Category = "Scheduled Maintenance"
	CategoryOutOfElectricalSpec    Category = "Out of Electrical Specification"
	CategoryRequestedShutdown      Category = "Requested Shutdown"
)

// CategorySet is an unordered set of categories.
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(categories ...Category) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// CategorySetFromStrings builds a set from raw category names.
func CategorySetFromStrings(names []string) CategorySet {
	set := make(CategorySet, len(names))
	for _, name := range names {
		set[Category(name)] = struct{}{}
	}
	return set
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s[c]
	return ok
}

// DefaultAvailableCategories counts toward availability.
func DefaultAvailableCategories() CategorySet {
	return NewCategorySet(
		CategoryFullPerformance,
		CategoryTechnicalStandby,
		CategoryOutOfEnvironmentalSpec,
	)
}

// DefaultUnavailableCategories are the downtime causes that get ranked.
func DefaultUnavailableCategories() CategorySet {
	return NewCategorySet(
		CategoryForcedOutage,
		CategoryScheduledMaintenance,
		CategoryOutOfElectricalSpec,
		CategoryRequestedShutdown,
	)
}
