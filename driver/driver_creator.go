package driver

import (
	"fmt"
	"time"

	"github.com/indexdata/catbridge/catalog"
)

const (
	DriverAdapter string = "DRIVER_ADAPTER"
	CatalogUrl    string = "CATALOG_URL"
	CatalogUser   string = "CATALOG_USER"
	CatalogSecret string = "CATALOG_SECRET"
	CatalogLocale string = "CATALOG_LOCALE"
)

func CreateDriver(cfg map[string]string, timeout time.Duration, maxResponseSize int64) (Driver, error) {
	driverAdapterVal, ok := cfg[DriverAdapter]
	if !ok {
		return nil, fmt.Errorf("missing value for %s", DriverAdapter)
	}
	if driverAdapterVal == "rest" {
		urlVal, ok := cfg[CatalogUrl]
		if !ok {
			return nil, fmt.Errorf("missing value for %s", CatalogUrl)
		}
		gateway := catalog.NewGateway(catalog.Config{
			Host:            urlVal,
			ServiceUsername: cfg[CatalogUser],
			ServiceSecret:   cfg[CatalogSecret],
			Locale:          cfg[CatalogLocale],
			Timeout:         timeout,
			MaxResponseSize: maxResponseSize,
		})
		return CreateRestDriver(gateway), nil
	}
	if driverAdapterVal == "mock" {
		return CreateMockDriver(), nil
	}
	return nil, fmt.Errorf("bad value for %s", DriverAdapter)
}
