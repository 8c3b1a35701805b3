package rbac

// AdminRoleName is the canonical super-role. The repair procedure
// creates it when missing and grants it the full catalog.
const AdminRoleName = "admin"

// Permission names recognised across the application. Handlers gate
// routes with these constants; the repair procedure seeds them.
const (
	PermViewDashboard = "view_dashboard"

	PermViewTours    = "view_tours"
	PermCreateTours  = "create_tours"
	PermEditTours    = "edit_tours"
	PermDeleteTours  = "delete_tours"
	PermPublishTours = "publish_tours"
	PermManageTours  = "manage_tours"

	PermViewDestinations   = "view_destinations"
	PermCreateDestinations = "create_destinations"
	PermEditDestinations   = "edit_destinations"
	PermDeleteDestinations = "delete_destinations"
	PermManageDestinations = "manage_destinations"

	PermViewBookings   = "view_bookings"
	PermCreateBookings = "create_bookings"
	PermEditBookings   = "edit_bookings"
	PermDeleteBookings = "delete_bookings"
	PermManageBookings = "manage_bookings"

	PermViewPosts    = "view_posts"
	PermCreatePosts  = "create_posts"
	PermEditPosts    = "edit_posts"
	PermDeletePosts  = "delete_posts"
	PermPublishPosts = "publish_posts"
	PermManageBlog   = "manage_blog"

	PermViewMedia   = "view_media"
	PermUploadMedia = "upload_media"
	PermDeleteMedia = "delete_media"
	PermManageMedia = "manage_media"

	PermViewUsers   = "view_users"
	PermCreateUsers = "create_users"
	PermEditUsers   = "edit_users"
	PermDeleteUsers = "delete_users"
	PermManageUsers = "manage_users"
	PermAssignRoles = "assign_roles"

	PermViewCustomers   = "view_customers"
	PermManageCustomers = "manage_customers"

	PermViewSettings   = "view_settings"
	PermManageSettings = "manage_settings"

	PermViewRoles   = "view_roles"
	PermManageRoles = "manage_roles"

	PermViewAnalytics   = "view_analytics"
	PermExportAnalytics = "export_analytics"
)

// CatalogEntry describes one permission seeded by the repair procedure.
type CatalogEntry struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// Catalog returns the fixed permission catalog. Names are stable;
// upserts key on them and never reassign ids.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{PermViewDashboard, "dashboard", "read", "View the admin dashboard"},

		{PermViewTours, "tours", "read", "View tours"},
		{PermCreateTours, "tours", "create", "Create tours"},
		{PermEditTours, "tours", "update", "Edit tours"},
		{PermDeleteTours, "tours", "delete", "Delete tours"},
		{PermPublishTours, "tours", "publish", "Publish or unpublish tours"},
		{PermManageTours, "tours", "manage", "Full tour management"},

		{PermViewDestinations, "destinations", "read", "View destinations"},
		{PermCreateDestinations, "destinations", "create", "Create destinations"},
		{PermEditDestinations, "destinations", "update", "Edit destinations"},
		{PermDeleteDestinations, "destinations", "delete", "Delete destinations"},
		{PermManageDestinations, "destinations", "manage", "Full destination management"},

		{PermViewBookings, "bookings", "read", "View bookings"},
		{PermCreateBookings, "bookings", "create", "Create bookings"},
		{PermEditBookings, "bookings", "update", "Edit bookings"},
		{PermDeleteBookings, "bookings", "delete", "Delete bookings"},
		{PermManageBookings, "bookings", "manage", "Full booking management"},

		{PermViewPosts, "posts", "read", "View blog posts"},
		{PermCreatePosts, "posts", "create", "Create blog posts"},
		{PermEditPosts, "posts", "update", "Edit blog posts"},
		{PermDeletePosts, "posts", "delete", "Delete blog posts"},
		{PermPublishPosts, "posts", "publish", "Publish or unpublish blog posts"},
		{PermManageBlog, "posts", "manage", "Full blog management"},

		{PermViewMedia, "media", "read", "View media library"},
		{PermUploadMedia, "media", "create", "Upload media"},
		{PermDeleteMedia, "media", "delete", "Delete media"},
		{PermManageMedia, "media", "manage", "Full media management"},

		{PermViewUsers, "users", "read", "View users"},
		{PermCreateUsers, "users", "create", "Create users"},
		{PermEditUsers, "users", "update", "Edit users"},
		{PermDeleteUsers, "users", "delete", "Delete users"},
		{PermManageUsers, "users", "manage", "Full user management"},
		{PermAssignRoles, "users", "assign", "Assign roles to users"},

		{PermViewCustomers, "customers", "read", "View customers"},
		{PermManageCustomers, "customers", "manage", "Full customer management"},

		{PermViewSettings, "settings", "read", "View site settings"},
		{PermManageSettings, "settings", "manage", "Change site settings"},

		{PermViewRoles, "roles", "read", "View roles"},
		{PermManageRoles, "roles", "manage", "Full role management"},

		{PermViewAnalytics, "analytics", "read", "View analytics"},
		{PermExportAnalytics, "analytics", "export", "Export analytics data"},
	}
}
