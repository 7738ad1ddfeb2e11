package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/indexdata/catbridge/app"
	"github.com/indexdata/catbridge/test"
	"github.com/indexdata/go-utils/utils"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	app.DRIVER_ADAPTER = "mock"
	app.HTTP_PORT = utils.Must(test.GetFreePort())

	go main()
	test.WaitForServiceUp(app.HTTP_PORT)

	os.Exit(m.Run())
}

func TestStartProcess(t *testing.T) {
	listener, _ := net.Listen("tcp", fmt.Sprintf(":%d", app.HTTP_PORT))
	if listener == nil {
		// Port is taken by main
		fmt.Printf("Port %d is taken\n", app.HTTP_PORT)
	} else {
		listener.Close()
		t.Fatal("Can't start server")
	}
}

func TestPickupLocationsEndpoint(t *testing.T) {
	resp, err := http.Get("http://localhost:" + strconv.Itoa(app.HTTP_PORT) + "/pickup-locations")
	assert.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Server"))
}
