package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alfredjeanlab/automa/internal/view"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printEntries writes one rendered line per entry followed by a count.
func printEntries(w io.Writer, vm view.ViewModel, noun string) {
	for _, e := range vm.Entries {
		fmt.Fprintln(w, e.Text)
	}
	if len(vm.Entries) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d %s\n", len(vm.Entries), noun)
}
