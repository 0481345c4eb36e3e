package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/workflow"
)

// openDetail loads the list and shows request id as if its row was clicked.
func openDetail(ctx context.Context, id string) (models.DispatchRequest, error) {
	if err := open(ctx); err != nil {
		return models.DispatchRequest{}, err
	}
	if !services.Grid.Click(id) {
		return models.DispatchRequest{}, fmt.Errorf("request %s: %w", id, workflow.ErrNotFound)
	}
	req, _ := services.View.Current()
	return req, nil
}

// showCurrent prints the current request after a detail change.
func showCurrent(cmd *cobra.Command) {
	if req, ok := services.View.Current(); ok {
		renderDetail(cmd.OutOrStdout(), req)
	}
}

var showCmd = &cobra.Command{
	Use:   "show <request-id>",
	Short: "Show a dispatch request with its files and recipients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		showCurrent(cmd)
		return nil
	},
}

var (
	createSubject string
	senderForm    models.SenderFields
)

func addSenderFlags(fs *pflag.FlagSet) {
	fs.StringVar(&senderForm.GivenName, "given-name", "", "Sender given name")
	fs.StringVar(&senderForm.FamilyName, "family-name", "", "Sender family name")
	fs.StringVar(&senderForm.AddressCountry, "country", "", "Sender country (ISO 3166-1 alpha-2)")
	fs.StringVar(&senderForm.PostalCode, "postal-code", "", "Sender postal code")
	fs.StringVar(&senderForm.AddressLocality, "locality", "", "Sender locality")
	fs.StringVar(&senderForm.StreetAddress, "street", "", "Sender street")
	fs.StringVar(&senderForm.BuildingNumber, "building", "", "Sender building number")
}

// mergeSender overlays the flags the user set on the request's sender.
func mergeSender(fs *pflag.FlagSet, base models.SenderFields) models.SenderFields {
	fields := []struct {
		flag     string
		dst, src *string
	}{
		{"given-name", &base.GivenName, &senderForm.GivenName},
		{"family-name", &base.FamilyName, &senderForm.FamilyName},
		{"country", &base.AddressCountry, &senderForm.AddressCountry},
		{"postal-code", &base.PostalCode, &senderForm.PostalCode},
		{"locality", &base.AddressLocality, &senderForm.AddressLocality},
		{"street", &base.StreetAddress, &senderForm.StreetAddress},
		{"building", &base.BuildingNumber, &senderForm.BuildingNumber},
	}
	for _, f := range fields {
		if fs.Changed(f.flag) {
			*f.dst = *f.src
		}
	}
	return base
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dispatch request in the organization group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if err := open(ctx); err != nil {
			return err
		}
		created, err := services.Workflows.CreateRequest(ctx, createSubject, senderForm)
		if err != nil {
			return err
		}
		services.SyncGrid()
		logger.Infow("Dispatch request created", "id", created.Identifier)
		showCurrent(cmd)
		return nil
	},
}

var subjectCmd = &cobra.Command{
	Use:   "subject <request-id> <subject>",
	Short: "Change the subject of a dispatch request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if err := services.Workflows.EditSubject(ctx, args[0], args[1]); err != nil {
			return err
		}
		showCurrent(cmd)
		return nil
	},
}

var senderCmd = &cobra.Command{
	Use:   "sender <request-id>",
	Short: "Change the sender of a dispatch request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		req, err := openDetail(ctx, args[0])
		if err != nil {
			return err
		}
		fields := mergeSender(cmd.Flags(), models.SenderFieldsOf(req))
		if err := services.Workflows.EditSender(ctx, args[0], fields); err != nil {
			return err
		}
		showCurrent(cmd)
		return nil
	},
}

var bulkMatching bool

// selectRows marks the rows a bulk action applies to: the given ids, or
// every row matching the query flags with --matching.
func selectRows(args []string) []string {
	if bulkMatching {
		return services.Grid.SelectMatching(query)
	}
	services.Grid.Select(args...)
	return services.Grid.Selected()
}

func runBulk(
	cmd *cobra.Command,
	args []string,
	single func(ctx context.Context, id string) error,
	bulk func(ctx context.Context) (workflow.BulkReport, error),
) error {
	ctx, cancel := signalContext()
	defer cancel()
	if len(args) == 1 && !bulkMatching {
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if err := single(ctx, args[0]); err != nil {
			return err
		}
		services.SyncGrid()
		return nil
	}
	if err := open(ctx); err != nil {
		return err
	}
	services.View.SetSelection(selectRows(args))
	report, err := bulk(ctx)
	if err != nil {
		return err
	}
	services.SyncGrid()
	fmt.Fprintf(cmd.OutOrStdout(), "%d succeeded, %d failed\n", len(report.Succeeded()), len(report.Failed()))
	for _, f := range report.Failed() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", f.ID, f.Err)
	}
	if len(report.Failed()) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(report.Failed()), len(report.Results))
	}
	return nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete <request-id>...",
	Short: "Delete dispatch requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !bulkMatching {
			return fmt.Errorf("give request ids or --matching")
		}
		return runBulk(cmd, args, services.Workflows.DeleteRequest, services.Workflows.DeleteSelected)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <request-id>...",
	Short: "Submit dispatch requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !bulkMatching {
			return fmt.Errorf("give request ids or --matching")
		}
		return runBulk(cmd, args, services.Workflows.SubmitRequest, services.Workflows.SubmitSelected)
	},
}

func init() {
	createCmd.Flags().StringVar(&createSubject, "subject", "", "Subject of the new request")
	addSenderFlags(createCmd.Flags())
	addSenderFlags(senderCmd.Flags())

	for _, c := range []*cobra.Command{deleteCmd, submitCmd} {
		addQueryFlags(c)
		c.Flags().BoolVar(&bulkMatching, "matching", false, "Apply to every row matching --filter/--column/--match")
	}
}
