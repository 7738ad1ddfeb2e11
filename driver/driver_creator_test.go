package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateDriverMissingAdapter(t *testing.T) {
	_, err := CreateDriver(map[string]string{}, time.Second, 0)
	assert.ErrorContains(t, err, "missing value for DRIVER_ADAPTER")
}

func TestCreateDriverBadAdapter(t *testing.T) {
	_, err := CreateDriver(map[string]string{DriverAdapter: "bad"}, time.Second, 0)
	assert.ErrorContains(t, err, "bad value for DRIVER_ADAPTER")
}

func TestCreateDriverMock(t *testing.T) {
	driver, err := CreateDriver(map[string]string{DriverAdapter: "mock"}, time.Second, 0)
	assert.NoError(t, err)
	assert.IsType(t, &MockDriver{}, driver)
}

func TestCreateDriverRestMissingUrl(t *testing.T) {
	_, err := CreateDriver(map[string]string{DriverAdapter: "rest"}, time.Second, 0)
	assert.ErrorContains(t, err, "missing value for CATALOG_URL")
}

func TestCreateDriverRest(t *testing.T) {
	driver, err := CreateDriver(map[string]string{
		DriverAdapter: "rest",
		CatalogUrl:    "http://localhost:8080",
		CatalogUser:   "svc",
		CatalogSecret: "secret",
		CatalogLocale: "sv",
	}, 10*time.Second, 1024)
	assert.NoError(t, err)
	assert.IsType(t, &RestDriver{}, driver)
}

func TestMockDriver(t *testing.T) {
	driver := CreateMockDriver()
	patron, err := driver.PatronLogin(extctx, "alice", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", patron.Username)

	hold, err := driver.PlaceHold(extctx, patron, HoldRequest{BibId: "b1", PickupLocation: "MAIN"})
	assert.NoError(t, err)
	assert.Equal(t, "b1", hold.BibId)

	results, err := driver.Renew(extctx, patron, []string{"i1", "i2"})
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	locations, err := driver.PickupLocations(extctx)
	assert.NoError(t, err)
	assert.Len(t, locations, 1)
}
