package version

// App is the current semrel version.
// It must be updated on every release.
const App = "0.3.0"

// FullApp returns the application version with the v prefix
func FullApp() string {
	return "v" + App
}
