//go:build !unix

package fsx

// os.Rename on Windows already moves files across volumes.
func isEXDEV(error) bool { return false }
