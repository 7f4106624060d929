package shared

// Breadcrumb represents a navigation trail
type Breadcrumb struct {
	Title string
	URL   string
}

// PageProps is the common data of every authenticated page
type PageProps struct {
	Title       string
	ActiveNav   string
	Breadcrumbs []Breadcrumb
	UserName    string
	UserEmail   string
	IsAdmin     bool
}

// NavItem is one entry of the top navigation
type NavItem struct {
	Key   string
	Title string
	URL   string
}

var (
	AdminNav = []NavItem{
		{Key: "dashboard", Title: "Dashboard", URL: "/admin/dashboard"},
		{Key: "members", Title: "Members", URL: "/admin/members"},
		{Key: "installments", Title: "Installments", URL: "/admin/installments"},
		{Key: "reports", Title: "Reports", URL: "/admin/reports"},
	}
	MemberNav = []NavItem{
		{Key: "dashboard", Title: "Dashboard", URL: "/member/dashboard"},
		{Key: "payments", Title: "Payments", URL: "/member/payments"},
		{Key: "profile", Title: "Profile", URL: "/member/profile"},
	}
)

func navFor(isAdmin bool) []NavItem {
	if isAdmin {
		return AdminNav
	}
	return MemberNav
}
