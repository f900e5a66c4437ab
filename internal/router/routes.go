package router

// Route binds a dashboard path to the command that renders it.
type Route struct {
	Path     string
	Name     string
	Title    string
	Icon     string
	Command  string
	Redirect string
	// AdminOnly marks views backed by /admin endpoints. It is informational;
	// the backend decides what a role may do.
	AdminOnly bool
}

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// DefaultRoutes is the route table of the dashboard.
var DefaultRoutes = []Route{
	{Path: LoginPath, Name: "Login", Title: "Login", Command: "login"},
	{Path: HomePath, Redirect: "/dashboard"},
	{Path: "/dashboard", Name: "Dashboard", Title: "System overview", Icon: "DataBoard", Command: "dashboard"},
	{Path: "/buildings", Name: "Building", Title: "Building management", Icon: "OfficeBuilding", Command: "buildings", AdminOnly: true},
	{Path: "/devices", Name: "Device", Title: "Device management", Icon: "Cpu", Command: "devices", AdminOnly: true},
	{Path: "/energy", Name: "EnergyRealtime", Title: "Realtime energy", Icon: "Lightning", Command: "energy"},
	{Path: "/alarms", Name: "Alarm", Title: "Alarm records", Icon: "Warning", Command: "alarms"},
	{Path: "/stats", Name: "EnergyStats", Title: "Statistics", Icon: "PieChart", Command: "stats"},
}
