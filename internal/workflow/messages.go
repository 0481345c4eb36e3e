package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/repository"
)

var successMessages = map[string]notify.Notification{
	"create_request": {
		Summary: "Request created",
		Body:    "The dispatch request was created.",
	},
	"edit_sender": {
		Summary: "Sender saved",
		Body:    "The sender of the dispatch request was updated.",
	},
	"edit_subject": {
		Summary: "Subject saved",
		Body:    "The subject of the dispatch request was updated.",
	},
	"delete_request": {
		Summary: "Request deleted",
		Body:    "The dispatch request was deleted.",
	},
	"submit_request": {
		Summary: "Request submitted",
		Body:    "The dispatch request was submitted and can no longer be changed.",
	},
	"add_file": {
		Summary: "File added",
		Body:    "The file was attached to the dispatch request.",
	},
	"delete_file": {
		Summary: "File deleted",
		Body:    "The file was removed from the dispatch request.",
	},
	"add_recipient": {
		Summary: "Recipient added",
		Body:    "The recipient was added to the dispatch request.",
	},
	"update_recipient": {
		Summary: "Recipient saved",
		Body:    "The recipient was updated.",
	},
	"delete_recipient": {
		Summary: "Recipient deleted",
		Body:    "The recipient was removed from the dispatch request.",
	},
}

func success(name string) notify.Notification {
	n := successMessages[name]
	n.Type = notify.Success
	return n
}

var confirmPrompts = map[string]string{
	"delete_request":   "Do you really want to delete this dispatch request?",
	"submit_request":   "Do you really want to submit this dispatch request? It cannot be changed afterwards.",
	"delete_recipient": "Do you really want to delete this recipient?",
}

func bulkPrompt(name string, n int) string {
	switch name {
	case "delete_request":
		return fmt.Sprintf("Do you really want to delete %d selected dispatch requests?", n)
	default:
		return fmt.Sprintf("Do you really want to submit %d selected dispatch requests? They cannot be changed afterwards.", n)
	}
}

// failure is the generic message for a rejected or unreachable backend call.
func failure(err error) notify.Notification {
	n := notify.Notification{Summary: "Error", Type: notify.Danger}
	var se *repository.StatusError
	switch {
	case errors.As(err, &se):
		n.Body = fmt.Sprintf("The server rejected the action (status %d).", se.StatusCode)
		if se.Detail != "" {
			n.Body += " " + se.Detail
		}
	default:
		n.Body = "The server could not be reached. Please try again later."
	}
	return n
}

func refreshFailed() notify.Notification {
	return notify.Notification{
		Summary: "Display may be outdated",
		Body:    "The action succeeded but the data could not be reloaded.",
		Type:    notify.Warning,
	}
}

func alreadySubmitted() notify.Notification {
	return notify.Notification{
		Summary: "Already submitted",
		Body:    "A submitted dispatch request cannot be changed.",
		Type:    notify.Danger,
	}
}

func incomplete() notify.Notification {
	return notify.Notification{
		Summary: "Cannot submit",
		Body:    "A dispatch request needs at least one file and one recipient before it can be submitted.",
		Type:    notify.Warning,
	}
}

func readOnly() notify.Notification {
	return notify.Notification{
		Summary: "Read-only",
		Body:    "You may not change dispatch requests of this organization group.",
		Type:    notify.Warning,
	}
}

func noScope() notify.Notification {
	return notify.Notification{
		Summary: "No group selected",
		Body:    "Please select an organization group first.",
		Type:    notify.Warning,
	}
}

func unknownRequest(id string) notify.Notification {
	return notify.Notification{
		Summary: "Not found",
		Body:    fmt.Sprintf("No dispatch request %q is listed.", id),
		Type:    notify.Warning,
	}
}

func unknownItem(kind, id string) notify.Notification {
	return notify.Notification{
		Summary: "Not found",
		Body:    fmt.Sprintf("The dispatch request has no %s %q.", kind, id),
		Type:    notify.Warning,
	}
}

func invalidForm(fields []string) notify.Notification {
	body := "Please check your input."
	if len(fields) > 0 {
		body = "Please check these fields: " + strings.Join(fields, ", ") + "."
	}
	return notify.Notification{Summary: "Invalid input", Body: body, Type: notify.Warning}
}

func nothingSelected() notify.Notification {
	return notify.Notification{
		Summary: "Nothing selected",
		Body:    "Please select at least one dispatch request.",
		Type:    notify.Warning,
	}
}
