//go:build !unix

package utils

import "os"

// Advisory locking is only implemented for unix; elsewhere runs are not guarded.
func tryLock(*os.File) error { return nil }

func unlock(*os.File) error { return nil }
