//go:build !unix

package preflight

import (
	"fmt"
	"os"
)

// CheckDirectoryAccess verifies that the directory exists. Permission bits are
// not inspected on this platform.
func CheckDirectoryAccess(name, path string) Result {
	return statOnly(name, path)
}

// CheckReadable verifies that the directory exists.
func CheckReadable(name, path string) Result {
	return statOnly(name, path)
}

// CheckFreeSpace is not implemented on this platform.
func CheckFreeSpace(name, path string, _ uint64) Result {
	return Result{Name: name, Warning: true, Detail: fmt.Sprintf("%s (not checked)", path)}
}

func statOnly(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
