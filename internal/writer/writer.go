package writer

import (
	"fmt"
	"io"
	"os"
)

// FileWriter wraps an os.File for writing MDF files. It provides:
//   - Space allocation tracking (via Allocator)
//   - Write-at-address operations
//   - End-of-file tracking
//   - Flush control
//
// Not thread-safe. Caller must synchronize access.
type FileWriter struct {
	file      *os.File
	allocator *Allocator
}

// CreateMode specifies the file creation behavior.
type CreateMode int

const (
	// ModeTruncate creates a new file, truncating if it exists. Equivalent
	// to os.Create().
	ModeTruncate CreateMode = iota

	// ModeExclusive creates a new file, failing if it already exists.
	ModeExclusive
)

// NewFileWriter creates a writer for a new MDF file. initialOffset is the
// 8-aligned end of the identification+header preamble; allocations for data
// groups, channel groups, channels, and data blocks start from there.
func NewFileWriter(filename string, mode CreateMode, initialOffset uint64) (*FileWriter, error) {
	var osFile *os.File
	var err error

	switch mode {
	case ModeTruncate:
		osFile, err = os.Create(filename)
	case ModeExclusive:
		osFile, err = os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	default:
		return nil, fmt.Errorf("invalid create mode: %d", mode)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &FileWriter{
		file:      osFile,
		allocator: NewAllocator(initialOffset),
	}, nil
}

// Allocate reserves size bytes, 8-aligned, at the end of the file. The
// space is not zeroed; the caller must write data to it.
func (w *FileWriter) Allocate(size uint64) (uint64, error) {
	if w.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	return w.allocator.Allocate(size)
}

// WriteAt writes data at a specific address in the file, implementing
// io.WriterAt. Does not itself track the write as an allocation — call
// Allocate first.
func (w *FileWriter) WriteAt(data []byte, offset int64) (int, error) {
	if w.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	if len(data) == 0 {
		return 0, nil
	}

	n, err := w.file.WriteAt(data, offset)
	if err != nil {
		return n, fmt.Errorf("write at address %d failed: %w", offset, err)
	}

	if n != len(data) {
		return n, fmt.Errorf("incomplete write at address %d: wrote %d of %d bytes", offset, n, len(data))
	}

	return n, nil
}

// WriteAtAddress writes data at a specific address (uint64 convenience
// wrapper for WriteAt).
func (w *FileWriter) WriteAtAddress(data []byte, addr uint64) error {
	_, err := w.WriteAt(data, int64(addr))
	return err
}

// ReadAt reads data at a specific address, implementing io.ReaderAt. Used
// to read back a block header immediately after writing it, e.g. to
// recompute a length field.
func (w *FileWriter) ReadAt(buf []byte, addr int64) (int, error) {
	if w.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	return w.file.ReadAt(buf, addr)
}

// EndOfFile returns the current end-of-file address: where the next
// allocation would (after alignment) occur.
func (w *FileWriter) EndOfFile() uint64 {
	return w.allocator.EndOfFile()
}

// Flush commits all writes to the underlying file.
func (w *FileWriter) Flush() error {
	if w.file == nil {
		return fmt.Errorf("writer is closed")
	}

	return w.file.Sync()
}

// Close closes the underlying file. Does not flush first — call Flush()
// before Close() when durability matters.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

// File returns the underlying *os.File. Direct use may break allocation
// tracking; prefer the writer's own methods.
func (w *FileWriter) File() *os.File {
	return w.file
}

// Allocator returns the space allocator, for debugging and tests.
func (w *FileWriter) Allocator() *Allocator {
	return w.allocator
}

// WriteAtWithAllocation allocates space for data and writes it there,
// returning the address.
func (w *FileWriter) WriteAtWithAllocation(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("cannot write empty data")
	}

	addr, err := w.Allocate(uint64(len(data)))
	if err != nil {
		return 0, err
	}

	if err := w.WriteAtAddress(data, addr); err != nil {
		return 0, err
	}

	return addr, nil
}

// UpdateLink patches a previously-emitted block's link field once the
// target's address is known. linkIndex is the zero-based position within
// the block's link array (immediately following the 24-byte header); the
// link field itself is 8 bytes, little-endian.
func (w *FileWriter) UpdateLink(blockOffset uint64, linkIndex int, target uint64) error {
	if linkIndex < 0 {
		return fmt.Errorf("negative link index %d", linkIndex)
	}

	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(target >> (8 * i))
	}

	pos := int64(blockOffset) + 24 + 8*int64(linkIndex)
	return w.WriteAtAddress(buf, uint64(pos))
}

// Seek implements io.Seeker for compatibility with code that wants to
// stream-write sequentially instead of through Allocate/WriteAt.
func (w *FileWriter) Seek(offset int64, whence int) (int64, error) {
	if w.file == nil {
		return 0, fmt.Errorf("writer is closed")
	}

	return w.file.Seek(offset, whence)
}

var (
	_ io.ReaderAt = (*FileWriter)(nil)
	_ io.WriterAt = (*FileWriter)(nil)
)
