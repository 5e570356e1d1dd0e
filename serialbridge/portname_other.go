//go:build !windows

package serialbridge

import "fmt"

// DefaultPortName maps COM numbering onto /dev/ttyS devices: port 1 is
// /dev/ttyS0. Port 0 has no COM equivalent and maps to /dev/ttyS0 as well.
func DefaultPortName(port uint16) string {
	if port == 0 {
		return "/dev/ttyS0"
	}
	return fmt.Sprintf("/dev/ttyS%d", port-1)
}
