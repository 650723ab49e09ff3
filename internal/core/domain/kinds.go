package domain

// Category identifies one class of project-scoped resource managed by the
// deployer.
type Category string

const (
	CategoryProject      Category = "project"
	CategoryKeys         Category = "keys"
	CategoryRepositories Category = "repositories"
	CategoryViews        Category = "views"
	CategoryInventories  Category = "inventories"
	CategoryEnvironments Category = "environments"
	CategoryTemplates    Category = "templates"
	CategorySchedules    Category = "schedules"
	CategoryIntegrations Category = "integrations"
	CategoryUsersAccess  Category = "users_access"
)

func (c Category) String() string {
	return string(c)
}

// ApplyOrder returns the categories in dependency order. A resource may only
// reference resources from categories earlier in this list, so processing in
// this order guarantees every name reference can be resolved.
func ApplyOrder() []Category {
	return []Category{
		CategoryKeys,
		CategoryRepositories,
		CategoryViews,
		CategoryInventories,
		CategoryEnvironments,
		CategoryTemplates,
		CategorySchedules,
		CategoryIntegrations,
		CategoryUsersAccess,
	}
}

// PruneOrder returns the categories subject to pruning, referencing
// categories first so deletes never break a still-present referrer.
func PruneOrder() []Category {
	return []Category{
		CategorySchedules,
		CategoryIntegrations,
		CategoryTemplates,
	}
}
