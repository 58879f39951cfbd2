package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow reports whether a*b would overflow uint64.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}

	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}

	return nil
}

// SafeMultiply multiplies two uint64 values, erroring instead of wrapping on overflow.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// ValidateBufferSize validates that a buffer size is within reasonable limits.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size == 0 {
		return fmt.Errorf("%s: size cannot be zero", description)
	}

	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}

	return nil
}

// Buffer size limits applied when allocating memory driven by on-disk
// length fields, so a corrupted or hostile file cannot force an
// unreasonably large allocation.
const (
	// MaxRecordRegionSize is 1GiB. TotalRegionSize rejects a record
	// region larger than 1024 times this value (1TiB).
	MaxRecordRegionSize = 1024 * 1024 * 1024

	// MaxTextBlockSize limits a ##TX/##MD payload to 16MiB.
	MaxTextBlockSize = 16 * 1024 * 1024

	// MaxVLSDEntrySize limits a single VLSD entry's payload to 64MiB.
	MaxVLSDEntrySize = 64 * 1024 * 1024
)

// RecordStride computes record_id_len + samples_byte_nr +
// invalidation_bytes_nr. Each operand is at most a uint32, so the sum
// never overflows uint64.
func RecordStride(recordIDLen, samplesByteNr, invalidationBytesNr uint32) uint64 {
	return uint64(recordIDLen) + uint64(samplesByteNr) + uint64(invalidationBytesNr)
}

// TotalRegionSize safely computes recordStride * cycleCount, the total
// byte length of a data group's logical record stream.
func TotalRegionSize(recordStride, cycleCount uint64) (uint64, error) {
	total, err := SafeMultiply(recordStride, cycleCount)
	if err != nil {
		return 0, fmt.Errorf("record region size overflow: %w", err)
	}
	if err := ValidateBufferSize(total, MaxRecordRegionSize*1024, "record region"); err != nil {
		return 0, err
	}
	return total, nil
}
