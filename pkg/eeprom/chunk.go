package eeprom

// Chunk is one page-bounded piece of a larger transfer.
type Chunk struct {
	// Address is the absolute on-chip address.
	Address int

	// Offset is the position of the chunk in the caller's buffer.
	Offset int

	// Length is the number of bytes in the chunk.
	Length int
}

// SplitPages splits the range [address, address+length) into chunks that
// never cross a page boundary. The first chunk fills up the current page;
// every following chunk starts on a page boundary. Chunks are returned in
// increasing address order. pageSize must be positive.
func SplitPages(address, length, pageSize int) []Chunk {
	if length <= 0 {
		return nil
	}

	chunks := make([]Chunk, 0, length/pageSize+2)
	offset := 0
	for offset < length {
		n := pageSize - (address+offset)%pageSize
		n = min(n, length-offset)
		chunks = append(chunks, Chunk{Address: address + offset, Offset: offset, Length: n})
		offset += n
	}
	return chunks
}
