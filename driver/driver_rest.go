package driver

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/indexdata/catbridge/catalog"
	"github.com/indexdata/catbridge/common"
)

// RestDriver implements the driver interface against the catalog's
// REST API through an authenticated request gateway. Patron-scoped
// operations run under the patron's own identity, availability and
// pickup-location lookups under the service account.
type RestDriver struct {
	gateway *catalog.Gateway
}

func CreateRestDriver(gateway *catalog.Gateway) Driver {
	return &RestDriver{gateway: gateway}
}

func (d *RestDriver) PatronLogin(ctx common.ExtendedContext, username string, password string) (*Patron, error) {
	if username == "" {
		return nil, fmt.Errorf("empty patron identifier")
	}
	identity := catalog.UserIdentity(username, password)
	var response struct {
		apiError
		Patron
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path:     []string{"patrons", "me"},
		Identity: identity,
	}, &response)
	if err != nil {
		// ErrAuthRejected passes through and means "login failed"
		return nil, err
	}
	err = checkApiError("patron lookup", response.apiError)
	if err != nil {
		return nil, err
	}
	patron := response.Patron
	if patron.Username == "" {
		patron.Username = username
	}
	patron.Secret = password
	return &patron, nil
}

func (d *RestDriver) Holds(ctx common.ExtendedContext, patron *Patron) ([]Hold, error) {
	var response struct {
		apiError
		Holds []Hold `json:"holds"`
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path:     []string{"patrons", patron.Id, "holds"},
		Identity: patronIdentity(patron),
	}, &response)
	if err != nil {
		return nil, err
	}
	return response.Holds, checkApiError("holds lookup", response.apiError)
}

func (d *RestDriver) PlaceHold(ctx common.ExtendedContext, patron *Patron, hold HoldRequest) (*Hold, error) {
	params, err := formValues(hold)
	if err != nil {
		return nil, err
	}
	var response struct {
		apiError
		Hold
	}
	_, err = d.gateway.Execute(ctx, catalog.Request{
		Path:     []string{"patrons", patron.Id, "holds"},
		Params:   params,
		Method:   http.MethodPost,
		Identity: patronIdentity(patron),
	}, &response)
	if err != nil {
		return nil, err
	}
	err = checkApiError("place hold", response.apiError)
	if err != nil {
		return nil, err
	}
	return &response.Hold, nil
}

func (d *RestDriver) CancelHold(ctx common.ExtendedContext, patron *Patron, holdId string) error {
	if holdId == "" {
		return fmt.Errorf("empty hold identifier")
	}
	var response struct {
		apiError
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path:     []string{"patrons", patron.Id, "holds", holdId},
		Method:   http.MethodDelete,
		Identity: patronIdentity(patron),
	}, &response)
	if err != nil {
		return err
	}
	return checkApiError("cancel hold", response.apiError)
}

func (d *RestDriver) Fines(ctx common.ExtendedContext, patron *Patron) ([]Fine, error) {
	var response struct {
		apiError
		Fines []Fine `json:"fines"`
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path:     []string{"patrons", patron.Id, "fines"},
		Identity: patronIdentity(patron),
	}, &response)
	if err != nil {
		return nil, err
	}
	return response.Fines, checkApiError("fines lookup", response.apiError)
}

// Renew attempts each item separately. A business rejection of one item
// lands in its RenewResult and never aborts the batch; transport and
// protocol failures do.
func (d *RestDriver) Renew(ctx common.ExtendedContext, patron *Patron, itemIds []string) ([]RenewResult, error) {
	results := make([]RenewResult, 0, len(itemIds))
	for _, itemId := range itemIds {
		var response struct {
			apiError
			DueDate string `json:"due_date"`
		}
		_, err := d.gateway.Execute(ctx, catalog.Request{
			Path:     []string{"patrons", patron.Id, "checkouts", itemId, "renewal"},
			Method:   http.MethodPost,
			Identity: patronIdentity(patron),
		}, &response)
		if err != nil {
			return nil, err
		}
		if response.Error != "" {
			results = append(results, RenewResult{ItemId: itemId, Renewed: false, Message: response.Error})
			continue
		}
		results = append(results, RenewResult{ItemId: itemId, Renewed: true, DueDate: response.DueDate})
	}
	return results, nil
}

func (d *RestDriver) PickupLocations(ctx common.ExtendedContext) ([]Location, error) {
	var response struct {
		apiError
		Libraries []Location `json:"libraries"`
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path: []string{"libraries"},
	}, &response)
	if err != nil {
		return nil, err
	}
	err = checkApiError("pickup locations lookup", response.apiError)
	if err != nil {
		return nil, err
	}
	locations := response.Libraries
	sort.Slice(locations, func(i, j int) bool {
		return strings.ToLower(locations[i].Name) < strings.ToLower(locations[j].Name)
	})
	return locations, nil
}

func (d *RestDriver) ItemStatus(ctx common.ExtendedContext, bibId string) ([]ItemStatus, error) {
	if bibId == "" {
		return nil, fmt.Errorf("empty bib identifier")
	}
	var response struct {
		apiError
		Items []ItemStatus `json:"items"`
	}
	_, err := d.gateway.Execute(ctx, catalog.Request{
		Path: []string{"biblios", bibId, "items"},
	}, &response)
	if err != nil {
		return nil, err
	}
	return response.Items, checkApiError("item status lookup", response.apiError)
}

func patronIdentity(patron *Patron) *catalog.Identity {
	return catalog.UserIdentity(patron.Username, patron.Secret)
}

func formValues(obj any) (url.Values, error) {
	fields, err := common.StructToMap(obj)
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	for name, value := range fields {
		s := fmt.Sprintf("%v", value)
		if s == "" {
			continue
		}
		values.Set(name, s)
	}
	return values, nil
}
