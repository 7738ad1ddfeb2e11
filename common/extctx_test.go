package common

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errorToThrow = errors.New("throwing error")
var errMsg = "this is test error message"
var ctx = CreateExtCtxWithArgs(context.Background(), nil)

func TestMust(t *testing.T) {
	value := "return value"
	result := Must(ctx, func() (string, error) {
		return value, nil
	}, errMsg)
	assert.Equal(t, value, result)
}

func TestMustWithErrorMessage(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic, but no panic occurred")
		} else if r != errMsg {
			t.Errorf("expected panic with message '%v', got: %v", errMsg, r)
		}
	}()
	Must(ctx, func() (*string, error) {
		return nil, errorToThrow
	}, errMsg)
}

func TestMustWithoutErrorMessage(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic, but no panic occurred")
		} else if r != errorToThrow {
			t.Errorf("expected panic with message '%v', got: %v", errorToThrow, r)
		}
	}()
	Must(ctx, func() (*string, error) {
		return nil, errorToThrow
	}, "")
}

func TestMustHttp(t *testing.T) {
	rr := httptest.NewRecorder()
	value := "return value"
	result := MustHttp(ctx, rr, func() (string, error) {
		return value, nil
	}, errMsg)
	assert.Equal(t, value, result)
}

func TestWithArgs(t *testing.T) {
	child := ctx.WithArgs(&LoggerArgs{RequestId: "r1", Patron: "alice", Operation: "holds",
		Other: map[string]string{"bibId": "b1"}})
	assert.NotNil(t, child.Logger())
	assert.NotEqual(t, ctx.Logger(), child.Logger())
}
