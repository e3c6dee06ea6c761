package calendarevent

import (
	accountdomain "github.com/lumicrm/lumicrm-go/internal/account/domain"
	"github.com/lumicrm/lumicrm-go/internal/calendarevent/domain"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/store"
)

// ResolveRelated looks the event's weak reference up in the relevant cache.
// A dangling or absent reference yields ok=false; rendering code treats
// that as a normal case, not an error.
func ResolveRelated(
	ref domain.RelatedRef,
	contacts *store.Store[contactdomain.Contact],
	accounts *store.Store[accountdomain.Account],
) (label string, ok bool) {
	switch ref.Kind {
	case domain.RelatedContact:
		if contact, found := contacts.Get(ref.ID); found {
			return contact.Name, true
		}
	case domain.RelatedAccount:
		if account, found := accounts.Get(ref.ID); found {
			return account.Name, true
		}
	}
	return "", false
}
