package index

import "encoding/binary"

// Binary dump layout, little-endian throughout:
//
//	[header]
//	[url table: num_docs x (u32 length, bytes)]
//	[term directory: num_terms x 32-byte entries, ascending by term hash]
//	[term string pool: NUL-terminated term strings]
//	[posting pool: one block per directory entry, in directory order]
//
// Version 1 stores postings as fixed-width (u32 doc id, u32 tf) pairs;
// version 2 delta-encodes doc ids and packs both fields as LEB128 varints.
const (
	Magic uint32 = 0x0ABC1234

	VersionPlain  uint32 = 1
	VersionPacked uint32 = 2

	headerSize = 16

	// entrySize keeps the directory entries 8-byte aligned: u64 hash,
	// u64 term offset, u64 data offset, u32 doc count, 4 bytes padding.
	entrySize = 32
)

// Terms with a single tf=1 posting carry no discriminative value, and terms
// present in nearly every document are effectively stopwords; both are
// dropped at dump time.
const stopwordShare = 0.95

// termEntry is one decoded directory slot. Offsets are absolute file offsets.
type termEntry struct {
	hash       uint64
	termOffset uint64
	dataOffset uint64
	docCount   uint32
}

func putTermEntry(dst []byte, e termEntry) {
	binary.LittleEndian.PutUint64(dst[0:8], e.hash)
	binary.LittleEndian.PutUint64(dst[8:16], e.termOffset)
	binary.LittleEndian.PutUint64(dst[16:24], e.dataOffset)
	binary.LittleEndian.PutUint32(dst[24:28], e.docCount)
	binary.LittleEndian.PutUint32(dst[28:32], 0)
}

func readTermEntry(src []byte) termEntry {
	return termEntry{
		hash:       binary.LittleEndian.Uint64(src[0:8]),
		termOffset: binary.LittleEndian.Uint64(src[8:16]),
		dataOffset: binary.LittleEndian.Uint64(src[16:24]),
		docCount:   binary.LittleEndian.Uint32(src[24:28]),
	}
}

// termHash is FNV-1a-32 over the term bytes, promoted to 64 bits. The
// directory is sorted by it; collisions are disambiguated by comparing the
// stored term string.
func termHash(term string) uint64 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(term); i++ {
		h ^= uint32(term[i])
		h *= prime32
	}
	return uint64(h)
}

// keepTerm is the dump-time pruning filter.
func keepTerm(list PostingList, numDocs int) bool {
	if len(list) == 0 {
		return false
	}
	if len(list) == 1 && list[0].TF <= 1 {
		return false
	}
	return float64(len(list)) < stopwordShare*float64(numDocs)
}

func uvarintLen(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// postingBlockSize returns the encoded byte size of a posting list.
func postingBlockSize(list PostingList, packed bool) int {
	if !packed {
		return len(list) * 8
	}
	size := 0
	prev := uint32(0)
	for _, p := range list {
		size += uvarintLen(p.DocID-prev) + uvarintLen(p.TF)
		prev = p.DocID
	}
	return size
}

// appendPostings encodes a posting list onto dst in the given codec.
func appendPostings(dst []byte, list PostingList, packed bool) []byte {
	if !packed {
		var buf [8]byte
		for _, p := range list {
			binary.LittleEndian.PutUint32(buf[0:4], p.DocID)
			binary.LittleEndian.PutUint32(buf[4:8], p.TF)
			dst = append(dst, buf[:]...)
		}
		return dst
	}
	var buf [2 * binary.MaxVarintLen32]byte
	prev := uint32(0)
	for _, p := range list {
		n := binary.PutUvarint(buf[:], uint64(p.DocID-prev))
		n += binary.PutUvarint(buf[n:], uint64(p.TF))
		dst = append(dst, buf[:n]...)
		prev = p.DocID
	}
	return dst
}
