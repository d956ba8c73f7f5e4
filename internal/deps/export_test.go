package deps

// SetExecutablePath swaps the executable lookup used for sidecar resolution.
func SetExecutablePath(fn func() (string, error)) (restore func()) {
	prev := executablePath
	executablePath = fn
	return func() { executablePath = prev }
}
