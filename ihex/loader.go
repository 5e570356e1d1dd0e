package ihex

import (
	"fmt"

	"github.com/SiGenixDave/FlashC167-R188TestBench/cache"
)

// Loader loads Intel HEX payloads as in-memory modules.
type Loader struct{}

var _ cache.ModuleLoader = Loader{}

// Load parses data and returns the image as the loaded module. Payloads that are
// not Intel HEX text, such as a native library, fail here.
func (Loader) Load(name string, data []byte) (cache.Module, error) {
	if len(data) == 0 || data[0] != StartCode {
		return nil, fmt.Errorf("%s is not an Intel HEX image", name)
	}
	img, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}
