package dto

// NavItem is one entry of a dashboard's navigation.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// DashboardShell describes the frame a dashboard page renders into.
type DashboardShell struct {
	Section    string    `json:"section"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	DeviceID   string    `json:"device_id"`
	Navigation []NavItem `json:"navigation"`
	LogoutPath string    `json:"logout_path"`
}

// LoginPage describes the login form.
type LoginPage struct {
	Page   string `json:"page"`
	Action string `json:"action"`
}
