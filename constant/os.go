package constant

// Supported runtime.GOOS identifiers.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
