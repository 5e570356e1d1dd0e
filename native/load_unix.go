//go:build darwin || linux || freebsd

package native

import "github.com/ebitengine/purego"

func openLibrary(path string) (lookupFunc, func() error, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, nil, err
	}

	lookup := func(name string) (uintptr, error) {
		return purego.Dlsym(handle, name)
	}
	release := func() error {
		return purego.Dlclose(handle)
	}
	return lookup, release, nil
}
