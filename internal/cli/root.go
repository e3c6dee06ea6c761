package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the lumictl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lumictl",
		Short:         "Command-line client for the LumiCRM API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var app *App
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = NewApp()
		return err
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app != nil {
			_ = app.Log.Sync()
		}
	}

	appRef := func() *App { return app }

	root.AddCommand(
		newLoginCmd(appRef),
		newRegisterCmd(appRef),
		newLogoutCmd(appRef),
		newWhoAmICmd(appRef),
		newContactsCmd(appRef),
		newAccountsCmd(appRef),
		newProductsCmd(appRef),
		newInvoicesCmd(appRef),
		newEventsCmd(appRef),
		newVATCmd(appRef),
		newSearchCmd(appRef),
		newDashboardCmd(appRef),
		newCheckoutCmd(appRef),
		newPlanCmd(appRef),
		newAdminCmd(appRef),
	)
	return root
}
