package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

func renderDetail(w io.Writer, r models.DispatchRequest) {
	status := "draft"
	if r.IsSubmitted() {
		status = "submitted " + r.DateSubmitted.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "Request:  %s\n", r.Identifier)
	fmt.Fprintf(w, "Subject:  %s\n", r.Name)
	fmt.Fprintf(w, "Created:  %s\n", r.DateCreated.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Status:   %s\n", status)
	fmt.Fprintf(w, "Sender:   %s\n", r.SenderName())
	fmt.Fprintf(w, "          %s\n", r.SenderAddress())

	fmt.Fprintf(w, "\nFiles (%d)\n", len(r.Files))
	if len(r.Files) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"identifier", "name", "format", "bytes"})
		table.SetAutoFormatHeaders(false)
		for _, f := range r.Files {
			table.Append([]string{f.Identifier, f.Name, f.FileFormat, strconv.FormatInt(f.ContentSize, 10)})
		}
		table.Render()
	}

	fmt.Fprintf(w, "\nRecipients (%d)\n", len(r.Recipients))
	if len(r.Recipients) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"identifier", "name", "address"})
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		for _, rec := range r.Recipients {
			table.Append([]string{rec.Identifier, rec.FullName(), rec.Address().String()})
		}
		table.Render()
	}
	if !r.IsSubmitted() && !r.CanSubmit() {
		fmt.Fprintln(w, "\nAdd at least one file and one recipient to submit this request.")
	}
}
