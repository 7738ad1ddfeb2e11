package driver

import (
	"github.com/indexdata/catbridge/common"
)

// MockDriver answers every operation with canned data, for tests and
// for running the service without a catalog behind it.
type MockDriver struct {
}

func CreateMockDriver() Driver {
	return &MockDriver{}
}

func (d *MockDriver) PatronLogin(ctx common.ExtendedContext, username string, password string) (*Patron, error) {
	return &Patron{
		Id:        "1",
		Username:  username,
		Firstname: "Mock",
		Surname:   "Patron",
		Secret:    password,
	}, nil
}

func (d *MockDriver) Holds(ctx common.ExtendedContext, patron *Patron) ([]Hold, error) {
	return []Hold{}, nil
}

func (d *MockDriver) PlaceHold(ctx common.ExtendedContext, patron *Patron, hold HoldRequest) (*Hold, error) {
	return &Hold{
		Id:             "1",
		BibId:          hold.BibId,
		PickupLocation: hold.PickupLocation,
		Status:         "placed",
	}, nil
}

func (d *MockDriver) CancelHold(ctx common.ExtendedContext, patron *Patron, holdId string) error {
	return nil
}

func (d *MockDriver) Fines(ctx common.ExtendedContext, patron *Patron) ([]Fine, error) {
	return []Fine{}, nil
}

func (d *MockDriver) Renew(ctx common.ExtendedContext, patron *Patron, itemIds []string) ([]RenewResult, error) {
	results := make([]RenewResult, 0, len(itemIds))
	for _, itemId := range itemIds {
		results = append(results, RenewResult{ItemId: itemId, Renewed: true})
	}
	return results, nil
}

func (d *MockDriver) PickupLocations(ctx common.ExtendedContext) ([]Location, error) {
	return []Location{{Id: "MAIN", Name: "Main Library"}}, nil
}

func (d *MockDriver) ItemStatus(ctx common.ExtendedContext, bibId string) ([]ItemStatus, error) {
	return []ItemStatus{{ItemId: "1", Status: "available", Location: "MAIN"}}, nil
}
