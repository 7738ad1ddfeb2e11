package driver

import (
	"github.com/indexdata/catbridge/common"
)

// Driver is an interface defining the operations a library catalog
// backend must support on behalf of the discovery layer: patron
// authentication, holds, fines, renewals and availability.
type Driver interface {
	PatronLogin(ctx common.ExtendedContext, username string, password string) (*Patron, error)

	Holds(ctx common.ExtendedContext, patron *Patron) ([]Hold, error)

	PlaceHold(ctx common.ExtendedContext, patron *Patron, hold HoldRequest) (*Hold, error)

	CancelHold(ctx common.ExtendedContext, patron *Patron, holdId string) error

	Fines(ctx common.ExtendedContext, patron *Patron) ([]Fine, error)

	Renew(ctx common.ExtendedContext, patron *Patron, itemIds []string) ([]RenewResult, error)

	PickupLocations(ctx common.ExtendedContext) ([]Location, error)

	ItemStatus(ctx common.ExtendedContext, bibId string) ([]ItemStatus, error)
}

type Patron struct {
	Id        string `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	// credential used to scope catalog calls to this patron, never serialized
	Secret string `json:"-"`
}

type Hold struct {
	Id             string `json:"hold_id"`
	BibId          string `json:"biblio_id"`
	Title          string `json:"title"`
	PickupLocation string `json:"pickup_library_id"`
	Status         string `json:"status"`
	Placed         string `json:"hold_date"`
}

type HoldRequest struct {
	BibId          string `json:"biblio_id"`
	PickupLocation string `json:"pickup_library_id"`
	Note           string `json:"note,omitempty"`
}

type Fine struct {
	ItemId      string  `json:"item_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

type RenewResult struct {
	ItemId  string `json:"item_id"`
	Renewed bool   `json:"renewed"`
	DueDate string `json:"due_date,omitempty"`
	Message string `json:"message,omitempty"`
}

type Location struct {
	Id   string `json:"library_id"`
	Name string `json:"name"`
}

type ItemStatus struct {
	ItemId     string `json:"item_id"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	CallNumber string `json:"call_number"`
	DueDate    string `json:"due_date,omitempty"`
}
