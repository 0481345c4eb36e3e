package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/workflow"
)

var recipientForm models.RecipientFields

func addRecipientFlags(fs *pflag.FlagSet) {
	fs.StringVar(&recipientForm.GivenName, "given-name", "", "Recipient given name")
	fs.StringVar(&recipientForm.FamilyName, "family-name", "", "Recipient family name")
	fs.StringVar(&recipientForm.AddressCountry, "country", "", "Recipient country (ISO 3166-1 alpha-2)")
	fs.StringVar(&recipientForm.PostalCode, "postal-code", "", "Recipient postal code")
	fs.StringVar(&recipientForm.AddressLocality, "locality", "", "Recipient locality")
	fs.StringVar(&recipientForm.StreetAddress, "street", "", "Recipient street")
	fs.StringVar(&recipientForm.BuildingNumber, "building", "", "Recipient building number")
	fs.StringVar(&recipientForm.BirthDate, "birth-date", "", "Recipient birth date (YYYY-MM-DD)")
}

func mergeRecipient(fs *pflag.FlagSet, base models.RecipientFields) models.RecipientFields {
	fields := []struct {
		flag     string
		dst, src *string
	}{
		{"given-name", &base.GivenName, &recipientForm.GivenName},
		{"family-name", &base.FamilyName, &recipientForm.FamilyName},
		{"country", &base.AddressCountry, &recipientForm.AddressCountry},
		{"postal-code", &base.PostalCode, &recipientForm.PostalCode},
		{"locality", &base.AddressLocality, &recipientForm.AddressLocality},
		{"street", &base.StreetAddress, &recipientForm.StreetAddress},
		{"building", &base.BuildingNumber, &recipientForm.BuildingNumber},
		{"birth-date", &base.BirthDate, &recipientForm.BirthDate},
	}
	for _, f := range fields {
		if fs.Changed(f.flag) {
			*f.dst = *f.src
		}
	}
	return base
}

var recipientCmd = &cobra.Command{
	Use:   "recipient",
	Short: "Manage the recipients of a dispatch request",
}

var recipientAddCmd = &cobra.Command{
	Use:   "add <request-id>",
	Short: "Add a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if err := services.Workflows.AddRecipient(ctx, args[0], recipientForm); err != nil {
			return err
		}
		services.SyncGrid()
		showCurrent(cmd)
		return nil
	},
}

var recipientUpdateCmd = &cobra.Command{
	Use:   "update <request-id> <recipient-id>",
	Short: "Change the name or address of a recipient",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		req, err := openDetail(ctx, args[0])
		if err != nil {
			return err
		}
		rec, ok := req.Recipient(args[1])
		if !ok {
			return fmt.Errorf("recipient %s: %w", args[1], workflow.ErrNotFound)
		}
		fields := mergeRecipient(cmd.Flags(), models.RecipientFieldsOf(rec))
		if err := services.Workflows.UpdateRecipient(ctx, args[0], args[1], fields); err != nil {
			return err
		}
		showCurrent(cmd)
		return nil
	},
}

var recipientDeleteCmd = &cobra.Command{
	Use:   "delete <request-id> <recipient-id>",
	Short: "Remove a recipient",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if err := services.Workflows.DeleteRecipient(ctx, args[0], args[1]); err != nil {
			return err
		}
		services.SyncGrid()
		showCurrent(cmd)
		return nil
	},
}

var recipientShowCmd = &cobra.Command{
	Use:   "show <request-id> <recipient-id>",
	Short: "Show the details and delivery status of a recipient",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		if _, err := openDetail(ctx, args[0]); err != nil {
			return err
		}
		if _, err := services.Workflows.OpenRecipient(ctx, args[0], args[1]); err != nil {
			return err
		}
		services.Modal.Close(workflow.RecipientDialog)
		return nil
	},
}

func init() {
	addRecipientFlags(recipientAddCmd.Flags())
	addRecipientFlags(recipientUpdateCmd.Flags())

	recipientCmd.AddCommand(recipientAddCmd)
	recipientCmd.AddCommand(recipientUpdateCmd)
	recipientCmd.AddCommand(recipientDeleteCmd)
	recipientCmd.AddCommand(recipientShowCmd)
}
