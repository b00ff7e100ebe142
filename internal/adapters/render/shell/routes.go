package shell

const RootRoute = "/"

type page int

const (
	pageDashboard page = iota
	pageNotFound
)

// resolve maps a path to a page. Only the exact root path shows the dashboard.
func resolve(route string) page {
	if route == RootRoute {
		return pageDashboard
	}
	return pageNotFound
}
