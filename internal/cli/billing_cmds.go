package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/lumicrm/lumicrm-go/internal/payment"
	"github.com/lumicrm/lumicrm-go/internal/plan"
	"github.com/lumicrm/lumicrm-go/internal/search"
	"github.com/spf13/cobra"
)

func newInvoicesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Manage invoices",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.InvoiceSv.LoadReferenceData(cmd.Context()); err != nil {
				return err
			}
			matches := search.Filter(a.Invoices.Snapshot(), query, a.InvoiceSv.SearchFields)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tACCOUNT\tSTATUS\tSUBTOTAL\tTAX\tTOTAL")
			for _, inv := range matches {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
					inv.InvoiceNumber, a.InvoiceSv.AccountName(inv.AccountID), inv.Status,
					inv.Subtotal, inv.TaxAmount, inv.TotalAmount)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by invoice number or account name")

	preview := &cobra.Command{
		Use:   "preview <id>",
		Short: "Recompute the client-side total preview for an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.InvoiceSv.LoadReferenceData(cmd.Context()); err != nil {
				return err
			}
			inv, ok := a.Invoices.Get(args[0])
			if !ok {
				return fmt.Errorf("invoice %s not found", args[0])
			}
			totals := a.InvoiceSv.Preview(inv)
			fmt.Fprintf(cmd.OutOrStdout(), "preview  subtotal=%s tax=%s total=%s\n",
				totals.Subtotal.StringFixed(2), totals.Tax.StringFixed(2), totals.Total.StringFixed(2))
			fmt.Fprintf(cmd.OutOrStdout(), "recorded subtotal=%.2f tax=%.2f total=%.2f\n",
				inv.Subtotal, inv.TaxAmount, inv.TotalAmount)
			return nil
		},
	}

	var outDir string
	pdf := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download the invoice PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Invoices.Load(cmd.Context()); err != nil {
				return err
			}
			path, err := a.InvoiceSv.SavePDF(cmd.Context(), args[0], outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			return nil
		},
	}
	pdf.Flags().StringVar(&outDir, "dir", ".", "directory to write the PDF into")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Invoices.Load(cmd.Context()); err != nil {
				return err
			}
			if err := a.Invoices.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}

	cmd.AddCommand(list, preview, pdf, remove)
	return cmd
}

func newVATCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT registry tools",
	}

	lookup := &cobra.Command{
		Use:   "lookup <number>",
		Short: "Validate a VAT number against the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			result, err := a.VAT.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s %s %s\n%s %s (%s)\n",
				result.Name, result.Street, result.StreetNr, result.Box,
				result.PostalCode, result.City, result.Country)
			return nil
		},
	}

	cmd.AddCommand(lookup)
	return cmd
}

func newSearchCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts, accounts, products, invoices and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			results, ok, err := a.Search.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			out := cmd.OutOrStdout()
			if results.Total() == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for _, contact := range results.Contacts {
				fmt.Fprintf(out, "contact  %s\t%s\n", contact.ID, contact.Name)
			}
			for _, account := range results.Accounts {
				fmt.Fprintf(out, "account  %s\t%s\n", account.ID, account.Name)
			}
			for _, product := range results.Products {
				fmt.Fprintf(out, "product  %s\t%s\n", product.ID, product.Name)
			}
			for _, inv := range results.Invoices {
				fmt.Fprintf(out, "invoice  %s\t%s\n", inv.ID, inv.InvoiceNumber)
			}
			for _, event := range results.Events {
				fmt.Fprintf(out, "event    %s\t%s\n", event.ID, event.Title)
			}
			return nil
		},
	}
}

func newDashboardCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			stats, err := a.Dashboard.Stats(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "contacts\t%d\n", stats.Contacts)
			fmt.Fprintf(w, "accounts\t%d\n", stats.Accounts)
			fmt.Fprintf(w, "products\t%d\n", stats.Products)
			fmt.Fprintf(w, "invoices\t%d\n", stats.Invoices)
			fmt.Fprintf(w, "events\t%d\n", stats.Events)
			if err := w.Flush(); err != nil {
				return err
			}

			recent, err := a.Dashboard.RecentActivity(cmd.Context(), 5)
			if err != nil {
				return err
			}
			for _, c := range recent.Contacts {
				fmt.Fprintf(cmd.OutOrStdout(), "recent contact: %s\n", c.Name)
			}
			for _, inv := range recent.Invoices {
				fmt.Fprintf(cmd.OutOrStdout(), "recent invoice: %s\n", inv.InvoiceNumber)
			}
			return nil
		},
	}
}

func newCheckoutCmd(app func() *App) *cobra.Command {
	var packageID string
	var poll bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start a checkout session for a credit package",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			session, err := a.Payments.CreateCheckoutSession(cmd.Context(), payment.CheckoutRequest{
				PackageID:  packageID,
				SuccessURL: "https://app.lumicrm.test/billing?session_id={CHECKOUT_SESSION_ID}",
				CancelURL:  "https://app.lumicrm.test/billing?cancelled=true",
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "open %s to pay\n", session.URL)

			if !poll {
				return nil
			}
			status, err := a.Payments.PollStatus(cmd.Context(), session.SessionID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment %s\n", status.PaymentStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&packageID, "package", "", "credit package id")
	cmd.Flags().BoolVar(&poll, "poll", false, "wait for the payment to settle")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}

func newPlanCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or change the subscription plan",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current plan, its limits and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			overview, err := a.Plans.Current(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", overview.Plan.Name, overview.Plan.ID)
			for _, feature := range overview.Plan.Features {
				fmt.Fprintf(out, "  - %s\n", feature)
			}
			fmt.Fprintf(out, "contacts: %s\n", formatUsage(overview.Usage.Contacts, overview.Limits.ContactsMax))
			fmt.Fprintf(out, "accounts: %s\n", formatUsage(overview.Usage.Accounts, overview.Limits.AccountsMax))
			return nil
		},
	}

	sel := &cobra.Command{
		Use:   "select <plan-id>",
		Short: "Switch to another plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			overview, err := a.Plans.Select(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "now on %s\n", overview.Plan.Name)
			return nil
		},
	}

	cmd.AddCommand(show, sel)
	return cmd
}

func formatUsage(used, max int) string {
	if max == plan.Unlimited {
		return fmt.Sprintf("%d (unlimited)", used)
	}
	return fmt.Sprintf("%d of %d", used, max)
}
