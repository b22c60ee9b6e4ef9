package ms5611

import "fmt"

// ChecksumError is returned by NewI2C when the PROM contents do not match
// the checksum stored on the device. The calibration words cannot be
// trusted; it is safe to retry construction.
type ChecksumError struct {
	// Stored is the checksum nibble read from PROM word 7.
	Stored uint8
	// Computed is the checksum calculated over the PROM contents.
	Computed uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("ms5611: PROM checksum mismatch (stored 0x%x, computed 0x%x)", e.Stored, e.Computed)
}
