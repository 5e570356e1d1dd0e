// Package cache materializes bundled payloads without redundant work.
//
// # Overview
//
// Load takes a payload's logical name and a target file name. The payload is
// first offered to a ModuleLoader; when that succeeds the module is registered in
// memory under its self-reported identity and nothing touches the disk. When it
// fails, as it does for a native shared library, the payload is written to the
// target file, but only if the file is missing or its SHA-1 differs from the
// payload's:
//
//	c := cache.New(store, cache.WithLoader(ihex.Loader{}))
//
//	res, err := c.Load("FlashSourcesDLL", "FlashSourcesDLL.dll")
//	if err != nil {
//	    log.Fatal(err) // payload.ErrNotFound
//	}
//	if res.Written {
//	    fmt.Println("refreshed", res.Path)
//	}
//
// Repeated runs therefore never rewrite an unchanged library, which matters when
// another process still has the previous copy loaded.
//
// # Errors
//
// A missing payload is returned as *payload.NotFoundError. A module that fails to
// load in memory is not an error. File system failures while hashing or writing
// the target are returned wrapped.
package cache
