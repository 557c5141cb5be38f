// Package checksum computes the CRC-32 sidecar spec.md §9's write model
// calls for: once a report has been fully written, a trailing
// `<report>.crc` file records a checksum over the report bytes so a
// consumer can detect a truncated or corrupted transfer. Grounded on
// BertoldVdb-jms578flash/image/crc.go's crcCalculateBlock, minus its
// 32-bit word byte-swap (that swap exists for flash-image word
// endianness; a CSV report has no such structure).
package checksum

import (
	"fmt"

	"github.com/snksoft/crc"
)

var table = crc.NewTable(crc.CRC32)

// Sum returns the CRC-32 (IEEE polynomial) of data.
func Sum(data []byte) uint32 {
	h := crc.NewHashWithTable(table)
	h.Update(data)
	return h.CRC32()
}

// SidecarName returns the sidecar path for a report written at reportPath.
func SidecarName(reportPath string) string {
	return reportPath + ".crc"
}

// SidecarContents formats sum the way the sidecar file stores it: one
// lowercase hex line, newline-terminated, no other metadata.
func SidecarContents(sum uint32) string {
	return fmt.Sprintf("%08x\n", sum)
}
