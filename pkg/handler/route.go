package handler

// Route type
type Route string

const (
	// RouteOverview site content overview
	RouteOverview Route = "overview"
	// RouteRawReport run a configured report
	RouteRawReport Route = "rawReport"
	// RouteSites list the known sites
	RouteSites Route = "sites"
	// RouteUpdate update repo
	RouteUpdate Route = "update"
)
