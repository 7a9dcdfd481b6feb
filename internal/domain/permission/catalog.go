package permission

// Permission names gate every route in the API. Roles carry sets of
// them and users may hold direct grants on top.
const (
	// Users
	CreateUser        = "CREATE_USER"
	ViewUsers         = "VIEW_USERS"
	UpdateUser        = "UPDATE_USER"
	DeleteUser        = "DELETE_USER"
	UpdateOwnProfile  = "UPDATE_OWN_PROFILE"
	AssignRoles       = "ASSIGN_ROLES"
	AssignPermissions = "ASSIGN_PERMISSIONS"

	// Roles & permissions
	ViewRoles       = "VIEW_ROLES"
	ManageRoles     = "MANAGE_ROLES"
	ViewPermissions = "VIEW_PERMISSIONS"

	// Promotions
	ViewPromotions   = "VIEW_PROMOTIONS"
	ManagePromotions = "MANAGE_PROMOTIONS"

	// Returns
	CreateReturn = "CREATE_RETURN"
	ViewReturns  = "VIEW_RETURNS"
)

// Entry describes one permission for the catalog endpoint
type Entry struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// Catalog lists every permission the system knows about
func Catalog() []Entry {
	return []Entry{
		{CreateUser, "users", "Create user accounts"},
		{ViewUsers, "users", "View user accounts"},
		{UpdateUser, "users", "Update user accounts"},
		{DeleteUser, "users", "Deactivate user accounts"},
		{UpdateOwnProfile, "users", "Update own profile"},
		{AssignRoles, "users", "Assign roles to users"},
		{AssignPermissions, "users", "Grant direct permissions to users"},
		{ViewRoles, "roles", "View roles"},
		{ManageRoles, "roles", "Create, update and delete roles"},
		{ViewPermissions, "roles", "View the permission catalog"},
		{ViewPromotions, "promotions", "View promotions and resolved discounts"},
		{ManagePromotions, "promotions", "Create, update and deactivate promotions"},
		{CreateReturn, "returns", "Register returns and exchanges"},
		{ViewReturns, "returns", "View returns"},
	}
}

// Known reports whether the name is a catalogued permission
func Known(name string) bool {
	for _, e := range Catalog() {
		if e.Name == name {
			return true
		}
	}
	return false
}
