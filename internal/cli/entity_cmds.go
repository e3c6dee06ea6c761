package cli

import (
	"fmt"
	"text/tabwriter"

	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/calendarevent"
	calendardomain "github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	productdomain "github.com/lumicrm/lumicrm-go/internal/product/domain"
	"github.com/lumicrm/lumicrm-go/internal/search"
	"github.com/lumicrm/lumicrm-go/internal/vat"
	"github.com/spf13/cobra"
)

func newContactsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contacts",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Contacts.Load(cmd.Context()); err != nil {
				return err
			}
			matches := search.Filter(a.Contacts.Snapshot(), query, func(c contactdomain.Contact) []string {
				return c.SearchFields()
			})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY")
			for _, contact := range matches {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", contact.ID, contact.Name, contact.Email, contact.Company)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by name, email or company")

	// Create, edit and delete run through the contact form controller, so
	// the CLI gets the same validate-then-commit and confirm-before-delete
	// behavior as the modal.
	var fields contactdomain.Contact
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.ContactForm.OpenCreate()
			a.ContactForm.SetDraft(fields)
			created, err := a.ContactForm.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created contact %s\n", created.ID)
			return nil
		},
	}
	create.Flags().StringVar(&fields.Name, "name", "", "contact name")
	create.Flags().StringVar(&fields.Email, "email", "", "email address")
	create.Flags().StringVar(&fields.Phone, "phone", "", "phone number")
	create.Flags().StringVar(&fields.Company, "company", "", "company name")
	create.Flags().StringVar(&fields.Position, "position", "", "job title")
	_ = create.MarkFlagRequired("name")

	var patch contactdomain.Contact
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Contacts.Load(cmd.Context()); err != nil {
				return err
			}
			record, ok := a.Contacts.Get(args[0])
			if !ok {
				return fmt.Errorf("contact %s not found", args[0])
			}
			a.ContactForm.OpenEdit(record)
			a.ContactForm.UpdateDraft(func(c contactdomain.Contact) contactdomain.Contact {
				return applyContactFlags(cmd, c, patch)
			})
			updated, err := a.ContactForm.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated contact %s\n", updated.ID)
			return nil
		},
	}
	edit.Flags().StringVar(&patch.Name, "name", "", "contact name")
	edit.Flags().StringVar(&patch.Email, "email", "", "email address")
	edit.Flags().StringVar(&patch.Phone, "phone", "", "phone number")
	edit.Flags().StringVar(&patch.Company, "company", "", "company name")
	edit.Flags().StringVar(&patch.Position, "position", "", "job title")

	var yes bool
	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Contacts.Load(cmd.Context()); err != nil {
				return err
			}
			record, ok := a.Contacts.Get(args[0])
			if !ok {
				return fmt.Errorf("contact %s not found", args[0])
			}
			a.ContactForm.OpenEdit(record)
			deleted, err := a.ContactForm.Delete(cmd.Context(), func() bool { return yes })
			if err != nil {
				return err
			}
			if !deleted {
				a.ContactForm.Cancel()
				fmt.Fprintln(cmd.OutOrStdout(), "not deleted (pass --yes to confirm)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	remove.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")

	cmd.AddCommand(list, create, edit, remove)
	return cmd
}

// applyContactFlags overlays only the flags the user actually set onto the
// record being edited.
func applyContactFlags(cmd *cobra.Command, current, patch contactdomain.Contact) contactdomain.Contact {
	if cmd.Flags().Changed("name") {
		current.Name = patch.Name
	}
	if cmd.Flags().Changed("email") {
		current.Email = patch.Email
	}
	if cmd.Flags().Changed("phone") {
		current.Phone = patch.Phone
	}
	if cmd.Flags().Changed("company") {
		current.Company = patch.Company
	}
	if cmd.Flags().Changed("position") {
		current.Position = patch.Position
	}
	return current
}

func newAccountsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage company accounts",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Accounts.Load(cmd.Context()); err != nil {
				return err
			}
			matches := search.Filter(a.Accounts.Snapshot(), query, func(acc accountdomain.Account) []string {
				return acc.SearchFields()
			})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tINDUSTRY\tVAT\tADDRESS")
			for _, account := range matches {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					account.ID, account.Name, account.Industry, account.VATNumber, account.FormatAddress())
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by name, industry or VAT number")

	var fillEmpty bool
	enrich := &cobra.Command{
		Use:   "enrich <account-id> <vat-number>",
		Short: "Look up a VAT number in the registry and merge the result into the account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Accounts.Load(cmd.Context()); err != nil {
				return err
			}
			account, ok := a.Accounts.Get(args[0])
			if !ok {
				return fmt.Errorf("account %s not found", args[0])
			}

			result, err := a.VAT.Lookup(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			mode := vat.MergeOverwrite
			if fillEmpty {
				mode = vat.MergeFillEmpty
			}
			merged := vat.Merge(account, result, mode)
			// The merge itself never touches the VAT number; here the user
			// supplied it explicitly.
			merged.VATNumber = vat.Normalize(args[1])

			updated, err := a.Accounts.Update(cmd.Context(), account.ID, merged)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s updated: %s, %s\n",
				updated.ID, updated.Name, updated.FormatAddress())
			return nil
		},
	}
	enrich.Flags().BoolVar(&fillEmpty, "fill-empty", false, "only fill fields that are currently empty")

	cmd.AddCommand(list, enrich)
	return cmd
}

func newProductsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Products.Load(cmd.Context()); err != nil {
				return err
			}
			matches := search.Filter(a.Products.Snapshot(), query, func(p productdomain.Product) []string {
				return p.SearchFields()
			})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tCURRENCY\tTAX\tSKU")
			for _, product := range matches {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.0f%%\t%s\n",
					product.ID, product.Name, product.Price, product.Currency, product.TaxRate*100, product.SKU)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by name, description or SKU")

	var priceStr string
	draft := productdomain.NewDraft()
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			price, err := productdomain.ParsePrice(priceStr)
			if err != nil {
				return err
			}
			draft.Price = price
			if draft.SKU == "" {
				draft.SKU = productdomain.SuggestSKU(draft.Name)
			}
			if err := productdomain.Validate(draft); err != nil {
				return err
			}
			created, err := a.Products.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created product %s (%s)\n", created.ID, created.SKU)
			return nil
		},
	}
	create.Flags().StringVar(&draft.Name, "name", "", "product name")
	create.Flags().StringVar(&draft.Description, "description", "", "description")
	create.Flags().StringVar(&priceStr, "price", "0", "unit price")
	create.Flags().Float64Var(&draft.TaxRate, "tax-rate", draft.TaxRate, "tax rate (0, 0.06, 0.12 or 0.21)")
	create.Flags().StringVar(&draft.SKU, "sku", "", "stock keeping unit (generated when empty)")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}

func newEventsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage calendar events",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Events.Load(cmd.Context()); err != nil {
				return err
			}
			if err := a.Contacts.Load(cmd.Context()); err != nil {
				return err
			}
			if err := a.Accounts.Load(cmd.Context()); err != nil {
				return err
			}
			matches := search.Filter(a.Events.Snapshot(), query, func(e calendardomain.CalendarEvent) []string {
				return e.SearchFields()
			})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTART\tRELATED")
			for _, event := range matches {
				related, _ := calendarevent.ResolveRelated(event.Related(), a.Contacts, a.Accounts)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					event.ID, event.Title, event.Type, event.StartDate.Format("2006-01-02 15:04"), related)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "filter by title or description")

	cmd.AddCommand(list)
	return cmd
}
