//go:build !unix

package feed

const LockName = ".astroblog.lock"

// Lock is a no-op where flock is unavailable.
type Lock struct{}

func AcquireLock(string) (*Lock, error) { return &Lock{}, nil }

func TryLock(string) (*Lock, bool, error) { return &Lock{}, true, nil }

func (*Lock) Release() error { return nil }
