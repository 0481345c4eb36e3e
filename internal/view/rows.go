package view

import (
	"slices"
	"strconv"
	"time"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

const dateLayout = "2006-01-02 15:04"

// Column names of a Row, in display order.
var Columns = []string{
	"identifier",
	"subject",
	"dateCreated",
	"dateSubmitted",
	"status",
	"sender",
	"files",
	"recipients",
}

// Row is the grid record of one dispatch request.
type Row struct {
	Identifier    string
	Subject       string
	DateCreated   string
	DateSubmitted string
	Status        string
	Sender        string
	Files         int
	Recipients    int
}

func (r Row) Field(name string) string {
	switch name {
	case "identifier":
		return r.Identifier
	case "subject":
		return r.Subject
	case "dateCreated":
		return r.DateCreated
	case "dateSubmitted":
		return r.DateSubmitted
	case "status":
		return r.Status
	case "sender":
		return r.Sender
	case "files":
		return strconv.Itoa(r.Files)
	case "recipients":
		return strconv.Itoa(r.Recipients)
	}
	return ""
}

// Values returns the fields in Columns order.
func (r Row) Values() []string {
	values := make([]string, len(Columns))
	for i, c := range Columns {
		values[i] = r.Field(c)
	}
	return values
}

func RowOf(req models.DispatchRequest) Row {
	row := Row{
		Identifier:  req.Identifier,
		Subject:     req.Name,
		DateCreated: formatDate(req.DateCreated),
		Status:      "draft",
		Sender:      req.SenderName(),
		Files:       len(req.Files),
		Recipients:  len(req.Recipients),
	}
	if req.IsSubmitted() {
		row.Status = "submitted"
		row.DateSubmitted = formatDate(req.DateSubmitted.Time)
	}
	return row
}

func Rows(reqs []models.DispatchRequest) []Row {
	rows := make([]Row, len(reqs))
	for i, r := range reqs {
		rows[i] = RowOf(r)
	}
	return rows
}

// SortByDateCreated orders reqs newest first in place. Requests created at
// the same instant keep their relative order.
func SortByDateCreated(reqs []models.DispatchRequest) {
	slices.SortStableFunc(reqs, func(a, b models.DispatchRequest) int {
		return b.DateCreated.Compare(a.DateCreated)
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}
