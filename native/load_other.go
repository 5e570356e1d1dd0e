//go:build !darwin && !linux && !freebsd && !windows

package native

func openLibrary(string) (lookupFunc, func() error, error) {
	return nil, nil, ErrUnsupported
}
