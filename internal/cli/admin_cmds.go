package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lumicrm/lumicrm-go/internal/admin"
	admindomain "github.com/lumicrm/lumicrm-go/internal/admin/domain"
	"github.com/spf13/cobra"
)

func newAdminCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "System administration (requires the admin role)",
	}
	cmd.AddCommand(newAdminUsersCmd(app), newAdminFieldsCmd(app))
	return cmd
}

// adminErr rewrites the forbidden sentinel into the message the web
// client shows.
func adminErr(err error) error {
	if errors.Is(err, admin.ErrAdminRequired) {
		return fmt.Errorf("admin access required; contact the system administrator")
	}
	return err
}

func newAdminUsersCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			users, err := a.Admin.ListUsers(cmd.Context())
			if err != nil {
				return adminErr(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tAUTH\tACTIVE\tROLES\tPAID")
			for _, user := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%.2f\n",
					user.ID, user.Name, user.Email, user.AuthType, user.IsActive,
					strings.Join(user.Roles, ","), user.TotalPaid)
			}
			return w.Flush()
		},
	}

	var req admindomain.NewUser
	var roles []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			req.Roles = roles
			user, err := a.Admin.CreateUser(cmd.Context(), req)
			if err != nil {
				return adminErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "full name")
	create.Flags().StringVar(&req.Email, "email", "", "email address")
	create.Flags().StringVar(&req.Password, "password", "", "initial password")
	create.Flags().StringSliceVar(&roles, "role", nil, "roles to grant (repeatable)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	grant := &cobra.Command{
		Use:   "grant <user-id> <role>",
		Short: "Assign a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Admin.AssignRole(cmd.Context(), args[0], args[1]); err != nil {
				return adminErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "role assigned")
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <user-id> <role>",
		Short: "Remove a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Admin.RemoveRole(cmd.Context(), args[0], args[1]); err != nil {
				return adminErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "role removed")
			return nil
		},
	}

	var active bool
	status := &cobra.Command{
		Use:   "status <user-id>",
		Short: "Activate or deactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Admin.SetUserStatus(cmd.Context(), args[0], active); err != nil {
				return adminErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status updated")
			return nil
		},
	}
	status.Flags().BoolVar(&active, "active", true, "whether the account may sign in")

	cmd.AddCommand(list, create, grant, revoke, status)
	return cmd
}

func newAdminFieldsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Manage custom fields",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List custom fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := app().Admin.ListCustomFields(cmd.Context())
			if err != nil {
				return adminErr(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tENTITY\tNAME\tTYPE\tREQUIRED")
			for _, field := range fields {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
					field.ID, field.EntityType, field.FieldName, field.FieldType, field.Required)
			}
			return w.Flush()
		},
	}

	draft := admindomain.NewCustomFieldDraft()
	var entity, fieldType string
	var options []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a custom field",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.EntityType = admindomain.EntityType(entity)
			draft.FieldType = admindomain.FieldType(fieldType)
			draft.FieldOptions = options
			field, err := app().Admin.CreateCustomField(cmd.Context(), draft)
			if err != nil {
				return adminErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created field %s\n", field.ID)
			return nil
		},
	}
	create.Flags().StringVar(&draft.FieldName, "name", "", "field name")
	create.Flags().StringVar(&entity, "entity", string(draft.EntityType), "entity type (contacts, accounts, products, invoices)")
	create.Flags().StringVar(&fieldType, "type", string(draft.FieldType), "field type (text, number, date, select, boolean)")
	create.Flags().StringSliceVar(&options, "option", nil, "options for select fields (repeatable)")
	create.Flags().BoolVar(&draft.Required, "required", false, "whether the field is mandatory")
	_ = create.MarkFlagRequired("name")

	remove := &cobra.Command{
		Use:   "delete <field-id>",
		Short: "Delete a custom field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Admin.DeleteCustomField(cmd.Context(), args[0]); err != nil {
				return adminErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}
