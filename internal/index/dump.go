package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// Dump serializes the builder into the binary index format at path, choosing
// version 2 (delta+varint postings) when compress is set. The file is written
// to a temporary sibling and renamed into place so that a crashed dump never
// leaves a half-written index behind.
func (b *Builder) Dump(path string, compress bool) error {
	terms := make([]string, 0, len(b.postings))
	for term, list := range b.postings {
		if keepTerm(list, len(b.urls)) {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		return termHash(terms[i]) < termHash(terms[j])
	})

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating index dump %s: %w", path, err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()
	w := bufio.NewWriterSize(f, 1<<20)

	version := VersionPlain
	if compress {
		version = VersionPacked
	}
	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint32(header[4:8], version)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(b.urls)))
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(terms)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	urlTableSize := 0
	var lenBuf [4]byte
	for _, url := range b.urls {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(url)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return fmt.Errorf("writing url table: %w", err)
		}
		if _, err := w.WriteString(url); err != nil {
			return fmt.Errorf("writing url table: %w", err)
		}
		urlTableSize += 4 + len(url)
	}

	// All section offsets are known up front: the directory follows the url
	// table, the string pool follows the directory, the posting pool follows
	// the string pool.
	termOffset := uint64(headerSize + urlTableSize + len(terms)*entrySize)
	dataOffset := termOffset
	for _, term := range terms {
		dataOffset += uint64(len(term) + 1)
	}

	entryBuf := make([]byte, entrySize)
	for _, term := range terms {
		list := b.postings[term]
		putTermEntry(entryBuf, termEntry{
			hash:       termHash(term),
			termOffset: termOffset,
			dataOffset: dataOffset,
			docCount:   uint32(len(list)),
		})
		if _, err := w.Write(entryBuf); err != nil {
			return fmt.Errorf("writing term directory: %w", err)
		}
		termOffset += uint64(len(term) + 1)
		dataOffset += uint64(postingBlockSize(list, compress))
	}

	for _, term := range terms {
		if _, err := w.WriteString(term); err != nil {
			return fmt.Errorf("writing term pool: %w", err)
		}
		if err := w.WriteByte(0); err != nil {
			return fmt.Errorf("writing term pool: %w", err)
		}
	}

	block := make([]byte, 0, 4096)
	for _, term := range terms {
		block = appendPostings(block[:0], b.postings[term], compress)
		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("writing posting pool: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing index dump: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing index dump: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing index dump: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index dump into place: %w", err)
	}
	return nil
}
