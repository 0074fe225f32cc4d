package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"revivalhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// collaboration.go handles collaboration requests and offers on listings.

var collabCmd = &cobra.Command{
	Use:     "collab",
	Aliases: []string{"collaboration"},
	Short:   "Collaboration requests and offers",
}

var collabRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Send a collaboration request or a buyout offer on a listing",
	Example: `  revivalhub collab request --listing <id> --message "Let's build this together"
  revivalhub collab request --listing <id> --kind offer --amount 25000 --message "Cash offer"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.CreateCollaborationRequest
		req.ListingID, _ = cmd.Flags().GetString("listing")
		req.Kind, _ = cmd.Flags().GetString("kind")
		req.Message, _ = cmd.Flags().GetString("message")
		if cmd.Flags().Changed("amount") {
			amount, _ := cmd.Flags().GetFloat64("amount")
			req.OfferAmount = &amount
		}

		res, err := c.CreateCollaboration(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %s request sent (id %s)\n", res.Collaboration.Kind, res.Collaboration.ID)
		if res.NotificationPending {
			fmt.Fprintf(out, "! %s\n", res.Warning)
		}
		return nil
	},
}

var collabIncomingCmd = &cobra.Command{
	Use:   "incoming",
	Short: "List pending requests on your listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		incoming, err := c.IncomingCollaborations(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list incoming requests: %w", err)
		}
		printIncoming(cmd.OutOrStdout(), incoming)
		return nil
	},
}

func printIncoming(out io.Writer, incoming []dto.IncomingCollaboration) {
	if len(incoming) == 0 {
		fmt.Fprintln(out, "No pending requests.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tLISTING\tFROM\tAMOUNT\tMESSAGE")
	for _, ic := range incoming {
		amount := "-"
		if ic.OfferAmount != nil {
			amount = fmt.Sprintf("%.2f", *ic.OfferAmount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ic.ID, ic.Kind, ic.Listing.Title, ic.Requester.Username, amount, ic.Message)
	}
	w.Flush()
}

func init() {
	collabCmd.AddCommand(collabRequestCmd)
	collabCmd.AddCommand(collabIncomingCmd)

	collabRequestCmd.Flags().StringP("listing", "l", "", "Listing ID")
	collabRequestCmd.Flags().StringP("kind", "k", "collaborate", "Request kind: collaborate or offer")
	collabRequestCmd.Flags().StringP("message", "m", "", "Message to the listing owner")
	collabRequestCmd.Flags().Float64P("amount", "a", 0, "Offer amount, required for an offer")
	collabRequestCmd.MarkFlagRequired("listing")
	collabRequestCmd.MarkFlagRequired("message")
}
