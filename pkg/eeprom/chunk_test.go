package eeprom_test

import (
	"testing"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/stretchr/testify/assert"
)

func TestSplitPagesExample(t *testing.T) {
	chunks := eeprom.SplitPages(0x34, 68, 32)

	assert.Equal(t, []eeprom.Chunk{
		{Address: 0x34, Offset: 0, Length: 12},
		{Address: 0x40, Offset: 12, Length: 32},
		{Address: 0x60, Offset: 44, Length: 24},
	}, chunks)
}

func TestSplitPagesEmpty(t *testing.T) {
	assert.Empty(t, eeprom.SplitPages(0x10, 0, 32))
}

func TestSplitPagesProperties(t *testing.T) {
	for _, page := range []int{8, 32, 64, 128} {
		for addr := 0; addr < 2*page; addr++ {
			for length := 1; length <= 3*page; length++ {
				chunks := eeprom.SplitPages(addr, length, page)

				if first := min(page-addr%page, length); chunks[0].Length != first {
					t.Fatalf("page %d addr %d len %d: first chunk %d, want %d", page, addr, length, chunks[0].Length, first)
				}

				next := addr
				for i, c := range chunks {
					switch {
					case c.Address != next || c.Offset != next-addr:
						t.Fatalf("page %d addr %d len %d: chunk %d not contiguous: %+v", page, addr, length, i, c)
					case c.Address/page != (c.Address+c.Length-1)/page:
						t.Fatalf("page %d addr %d len %d: chunk %d crosses page: %+v", page, addr, length, i, c)
					case i > 0 && c.Address%page != 0:
						t.Fatalf("page %d addr %d len %d: chunk %d not aligned: %+v", page, addr, length, i, c)
					case i > 0 && i < len(chunks)-1 && c.Length != page:
						t.Fatalf("page %d addr %d len %d: inner chunk %d not a full page: %+v", page, addr, length, i, c)
					}
					next += c.Length
				}
				if next-addr != length {
					t.Fatalf("page %d addr %d len %d: chunks cover %d bytes", page, addr, length, next-addr)
				}
			}
		}
	}
}
