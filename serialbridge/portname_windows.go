//go:build windows

package serialbridge

import "fmt"

// DefaultPortName returns COM<port>.
func DefaultPortName(port uint16) string {
	return fmt.Sprintf("COM%d", port)
}
