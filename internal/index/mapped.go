package index

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sys/unix"

	pkgerrors "github.com/zloyaloha/web-searcher/pkg/errors"
)

// Mapped is a read-only index backed by a memory-mapped dump file. It is
// immutable after Open and safe for concurrent readers. Posting lists and
// urls returned to callers are owned copies; nothing escapes into the
// mapping, whose lifetime ends at Close.
type Mapped struct {
	f        *os.File
	data     []byte
	version  uint32
	urls     []string
	dirOff   int
	numTerms int
}

// Open maps the dump file at path and validates its header. Opening the same
// file twice yields two independent mappings.
func Open(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	if st.Size() < headerSize {
		f.Close()
		return nil, fmt.Errorf("%w: truncated header in %s", pkgerrors.ErrInvalidFormat, path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping index file: %w", err)
	}

	m := &Mapped{f: f, data: data}
	if err := m.parse(path); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mapped) parse(path string) error {
	if magic := binary.LittleEndian.Uint32(m.data[0:4]); magic != Magic {
		return fmt.Errorf("%w: bad magic %#x in %s", pkgerrors.ErrInvalidFormat, magic, path)
	}
	m.version = binary.LittleEndian.Uint32(m.data[4:8])
	if m.version != VersionPlain && m.version != VersionPacked {
		return fmt.Errorf("%w: version %d in %s", pkgerrors.ErrUnknownVersion, m.version, path)
	}
	numDocs := int(binary.LittleEndian.Uint32(m.data[8:12]))
	m.numTerms = int(binary.LittleEndian.Uint32(m.data[12:16]))

	// The url table is small and hot; copy it out of the mapping.
	off := headerSize
	m.urls = make([]string, 0, numDocs)
	for i := 0; i < numDocs; i++ {
		if off+4 > len(m.data) {
			return fmt.Errorf("%w: truncated url table in %s", pkgerrors.ErrInvalidFormat, path)
		}
		n := int(binary.LittleEndian.Uint32(m.data[off : off+4]))
		off += 4
		if off+n > len(m.data) {
			return fmt.Errorf("%w: truncated url table in %s", pkgerrors.ErrInvalidFormat, path)
		}
		m.urls = append(m.urls, string(m.data[off:off+n]))
		off += n
	}

	if off+m.numTerms*entrySize > len(m.data) {
		return fmt.Errorf("%w: truncated term directory in %s", pkgerrors.ErrInvalidFormat, path)
	}
	m.dirOff = off
	return nil
}

// Close releases the mapping and the file descriptor. Safe to call once.
func (m *Mapped) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}

// Version returns the dump codec version recorded in the header.
func (m *Mapped) Version() uint32 {
	return m.version
}

// NumDocs returns the number of documents recorded in the dump.
func (m *Mapped) NumDocs() uint32 {
	return uint32(len(m.urls))
}

// NumTerms returns the number of directory entries.
func (m *Mapped) NumTerms() int {
	return m.numTerms
}

// URL returns the url at docID, or "" when out of range.
func (m *Mapped) URL(docID uint32) string {
	if int(docID) < len(m.urls) {
		return m.urls[docID]
	}
	return ""
}

// Postings looks the term up in the directory and decodes its posting list.
// Unknown terms yield an empty list.
func (m *Mapped) Postings(term string) PostingList {
	h := termHash(term)
	i := sort.Search(m.numTerms, func(i int) bool {
		return m.entryHash(i) >= h
	})
	// Hash collisions sit adjacent in the directory; scan the run and
	// compare the stored strings.
	for ; i < m.numTerms && m.entryHash(i) == h; i++ {
		e := readTermEntry(m.data[m.dirOff+i*entrySize:])
		if m.termEquals(e.termOffset, term) {
			return m.decodePostings(e)
		}
	}
	return nil
}

func (m *Mapped) entryHash(i int) uint64 {
	return binary.LittleEndian.Uint64(m.data[m.dirOff+i*entrySize:])
}

// termEquals compares the NUL-terminated string at off against term.
func (m *Mapped) termEquals(off uint64, term string) bool {
	o := int(off)
	if o < 0 || o+len(term)+1 > len(m.data) {
		return false
	}
	return string(m.data[o:o+len(term)]) == term && m.data[o+len(term)] == 0
}

func (m *Mapped) decodePostings(e termEntry) PostingList {
	list := make(PostingList, 0, e.docCount)
	off := int(e.dataOffset)

	if m.version == VersionPlain {
		if off+int(e.docCount)*8 > len(m.data) {
			return nil
		}
		for i := 0; i < int(e.docCount); i++ {
			list = append(list, Posting{
				DocID: binary.LittleEndian.Uint32(m.data[off : off+4]),
				TF:    binary.LittleEndian.Uint32(m.data[off+4 : off+8]),
			})
			off += 8
		}
		return list
	}

	docID := uint32(0)
	for i := 0; i < int(e.docCount); i++ {
		delta, n := binary.Uvarint(m.data[off:])
		if n <= 0 {
			return nil
		}
		off += n
		tf, n := binary.Uvarint(m.data[off:])
		if n <= 0 {
			return nil
		}
		off += n
		docID += uint32(delta)
		list = append(list, Posting{DocID: docID, TF: uint32(tf)})
	}
	return list
}
