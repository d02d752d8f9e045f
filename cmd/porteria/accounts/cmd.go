package accounts

import (
	"errors"

	"github.com/amontoro/porteria/account"
	"github.com/amontoro/porteria/account/provision"
	"github.com/amontoro/porteria/internal/cmdflags"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Manage the account store",
		Subcommands: []*cli.Command{
			addCmd(),
			seedCmd(),
			provisionCmd(),
		},
	}
}

func addCmd() *cli.Command {
	storeDir := "db"
	return &cli.Command{
		Name:      "add",
		Usage:     "Register an account, leaving an existing one untouched",
		ArgsUsage: "<identifier> [secret]",
		Flags:     []cli.Flag{cmdflags.StoreDir(&storeDir)},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				return errors.New("missing identifier argument")
			}
			st, err := account.Open(ctx.Context, storeDir)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.InsertIfAbsent(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1))
		},
	}
}

func seedCmd() *cli.Command {
	storeDir := "db"
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the initial admin account with an empty secret",
		Flags: []cli.Flag{cmdflags.StoreDir(&storeDir)},
		Action: func(ctx *cli.Context) error {
			st, err := account.Open(ctx.Context, storeDir)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.InsertIfAbsent(ctx.Context, "admin", "")
		},
	}
}

func provisionCmd() *cli.Command {
	storeDir := "db"
	return &cli.Command{
		Name:      "provision",
		Usage:     "Seed accounts declared by a Lua script",
		ArgsUsage: "<script.lua>",
		Flags:     []cli.Flag{cmdflags.StoreDir(&storeDir)},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expecting exactly one script argument")
			}
			st, err := account.Open(ctx.Context, storeDir)
			if err != nil {
				return err
			}
			defer st.Close()
			applied, err := provision.RunFile(ctx.Context, st, ctx.Args().First())
			if err != nil {
				return err
			}
			log.Info().Int("accounts", applied).Msg("Provision script applied")
			return nil
		},
	}
}
