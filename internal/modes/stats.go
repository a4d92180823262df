// File: stats.go
// Brief: Shared helper for appending mode-specific statistics lines
//
// Grounded on original_source/src/dpor.cpp's DPORStatistics::dump, which
// opens statistics.txt in append mode and writes a single tab-separated
// "<name>\t<value>" line per counter.
package modes

import (
	"fmt"
	"os"
)

func appendStat(path, name string, value int) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("modes: open stats file: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s\t%d\n", name, value)
	return err
}
