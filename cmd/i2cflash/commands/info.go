package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/i2cflash/i2cflash-go/internal/history"
	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/i2cflash/i2cflash-go/pkg/i2c/mcp2221"
)

// RunCatalog prints the supported parts.
func RunCatalog(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tKBIT\tPAGE\tADDR BYTES\tBUS ADDRESSES\tEXAMPLE")
	for _, g := range eeprom.Catalog() {
		kbit := g.Capacity * 8 / 1024
		example := fmt.Sprintf("%s%02d", eeprom.Families[0], kbit)
		if g.Capacity == 4096 {
			example += "A"
		}
		addrs := "0x50"
		if g.AddressWidth == 2 {
			addrs = "0x50-0x57"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n", g.Capacity, kbit, g.PageSize, g.AddressWidth, addrs, example)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nFamilies: %s\n", strings.Join(eeprom.Families, ", "))
}

// RunInfo resolves a part and prints its geometry.
func RunInfo(w io.Writer, part string, address uint8) error {
	name, err := eeprom.ParseName(part)
	if err != nil {
		return err
	}
	g, err := eeprom.Resolve(part, address)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Part:          %s\n", name)
	fmt.Fprintf(w, "Bus address:   0x%02x\n", address)
	fmt.Fprintf(w, "Capacity:      %d bytes\n", g.Capacity)
	fmt.Fprintf(w, "Page size:     %d bytes (%d pages)\n", g.PageSize, g.Pages())
	fmt.Fprintf(w, "Address bytes: %d\n", g.AddressWidth)
	fmt.Fprintf(w, "Write cycle:   %s max\n", eeprom.WriteCycleTimeMax)
	return nil
}

// RunList prints the attached MCP2221A bridges.
func RunList(w io.Writer) {
	infos := mcp2221.Enumerate(mcp2221.DefaultVID, mcp2221.DefaultPID)
	if len(infos) == 0 {
		fmt.Fprintln(w, "No MCP2221A bridges found")
		return
	}
	for _, info := range infos {
		fmt.Fprintf(w, "mcp2221://%d  %s %s (serial %s)\n", info.Index, info.Manufacturer, info.Product, info.Serial)
	}
}

// RunHistory prints recorded operations from the database at path.
func RunHistory(w io.Writer, path, part string, limit int) error {
	store, err := history.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ops, err := store.List(part, limit, 0)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tKIND\tPART\tADDR\tRANGE\tSTATUS\tDURATION")
	for _, op := range ops {
		status := op.Status
		if op.Error != "" {
			status += ": " + op.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t0x%02x\t0x%04x+%d\t%s\t%s\n",
			op.StartedAt.Local().Format(time.DateTime), op.Kind, op.Part, op.Address,
			op.Start, op.Length, status, op.Duration)
	}
	return tw.Flush()
}
