package testutil

import (
	"context"
	"os"

	"github.com/amontoro/porteria/account"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

func AcquireStore(ctx context.Context, t TestLog) (*account.Store, func()) {
	dir, err := os.MkdirTemp("", "porteria-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := account.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close account store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
