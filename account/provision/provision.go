// Package provision seeds the account store from a Lua script, for
// out-of-band provisioning. A script declares a global accounts table:
//
//	accounts = {
//		{ identifier = "admin", secret = "" },
//		{ identifier = "ana", secret = "s3cret" },
//	}
//
// Existing accounts are left untouched, so re-running a script is
// safe.
package provision

import (
	"context"
	"fmt"
	"os"

	"github.com/amontoro/porteria/account"
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

type (
	// Entry is one declared account.
	Entry struct {
		Identifier string
		Secret     string
	}
)

// RunFile executes the script at path against the store and returns
// how many entries it declared.
func RunFile(ctx context.Context, st *account.Store, path string) (int, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("unable to read provision script %v, cause %w", path, err)
	}
	return RunScript(ctx, st, path, string(code))
}

// RunScript executes a provision script given as source text. name is
// only used in error messages.
func RunScript(ctx context.Context, st *account.Store, name, code string) (int, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	if err := L.DoString(code); err != nil {
		return 0, fmt.Errorf("provision script %v failed, cause %w", name, err)
	}
	decl, ok := L.GetGlobal("accounts").(*lua.LTable)
	if !ok {
		return 0, fmt.Errorf("provision script %v must define a global accounts table", name)
	}
	var applied int
	var firstErr error
	decl.ForEach(func(_, v lua.LValue) {
		if firstErr != nil {
			return
		}
		tbl, ok := v.(*lua.LTable)
		if !ok {
			firstErr = fmt.Errorf("provision script %v: accounts entries must be tables, got %v", name, v.Type())
			return
		}
		var entry Entry
		if err := gluamapper.Map(tbl, &entry); err != nil {
			firstErr = fmt.Errorf("provision script %v: bad account entry, cause %w", name, err)
			return
		}
		if entry.Identifier == "" {
			firstErr = fmt.Errorf("provision script %v: account entry without identifier", name)
			return
		}
		if err := st.InsertIfAbsent(ctx, entry.Identifier, entry.Secret); err != nil {
			firstErr = err
			return
		}
		applied++
	})
	return applied, firstErr
}
