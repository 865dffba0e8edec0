package invite

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText prints one "%3d name" line per invitee.
func WriteText(w io.Writer, invited []Invitee) error {
	for _, inv := range invited {
		if _, err := fmt.Fprintf(w, "%3d %s\n", inv.UserID, inv.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable prints invitees as an aligned table.
func WriteTable(w io.Writer, invited []Invitee) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "USER ID\tNAME\tDISTANCE (KM)\tMETHOD")
	fmt.Fprintln(tw, "-------\t----\t-------------\t------")

	for _, inv := range invited {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%s\n", inv.UserID, inv.Name, inv.DistanceKm, inv.Method)
	}

	return tw.Flush()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteComparison prints one line per compared record.
func WriteComparison(w io.Writer, c *Comparison) error {
	for _, row := range c.Rows {
		var err error
		switch {
		case row.Error != "":
			_, err = fmt.Fprintf(w, "TEST FAILED [%10.6f] =! [%10s]    (%s)\n", row.SphericalKm, "no result", row.Error)
		case row.Passed:
			_, err = fmt.Fprintf(w, "Test passed [%10.6f] =~ [%10.6f]    (d %10.6f)\n", row.SphericalKm, row.VincentyKm, row.DeltaKm)
		default:
			_, err = fmt.Fprintf(w, "TEST FAILED [%10.6f] =! [%10.6f]    (d %10.6f)\n", row.SphericalKm, row.VincentyKm, row.DeltaKm)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
