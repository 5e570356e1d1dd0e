// Package bundle embeds the payloads shipped inside the flashing tool.
//
// The source tree carries only manifest.yaml. Release builds drop the stage hex
// files and the native engine library into payloads/ next to it before
// compiling. A build without them still lists every logical name, but opening
// one yields a *payload.NotFoundError naming the missing file; point the tool at
// a directory with --payload-dir instead.
package bundle

import (
	"embed"
	"io/fs"
)

//go:embed payloads
var payloads embed.FS

// FS returns the bundled payload directory with manifest.yaml at its root.
func FS() fs.FS {
	sub, err := fs.Sub(payloads, "payloads")
	if err != nil {
		panic(err)
	}
	return sub
}
