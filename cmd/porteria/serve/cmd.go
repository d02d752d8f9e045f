package serve

import (
	"os"

	"github.com/amontoro/porteria/account"
	"github.com/amontoro/porteria/gate"
	"github.com/amontoro/porteria/gate/api"
	"github.com/amontoro/porteria/internal/cmdflags"
	"github.com/amontoro/porteria/internal/httpserver"
	"github.com/amontoro/porteria/pages"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "0.0.0.0:8080"
	storeDir := "db"
	allowUsernameOnly := false
	keyEnvVar := ""
	insecureCookie := false
	seedInitial := false
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the login gate server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and serve the application",
				EnvVars:     []string{"PORTERIA_BIND"},
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.StoreDir(&storeDir),
			cmdflags.AllowUsernameOnly(&allowUsernameOnly),
			cmdflags.SessionKeyEnvVar(&keyEnvVar),
			&cli.BoolFlag{
				Name:        "insecure-cookie",
				Usage:       "Allow the session cookie over plain HTTP (local development only)",
				Value:       insecureCookie,
				Destination: &insecureCookie,
			},
			&cli.BoolFlag{
				Name:        "seed-initial-account",
				Usage:       "Create the admin account with an empty secret if it does not exist",
				Value:       seedInitial,
				Destination: &seedInitial,
			},
		},
		Action: func(ctx *cli.Context) error {
			st, err := account.Open(ctx.Context, storeDir)
			if err != nil {
				return err
			}
			defer st.Close()
			if seedInitial {
				if err := st.InsertIfAbsent(ctx.Context, "admin", ""); err != nil {
					return err
				}
			}
			key, err := api.KeyFromEnv(keyEnvVar, os.Getenv, os.Setenv)
			if err != nil {
				return err
			}
			pageHandler, err := pages.AsHandler()
			if err != nil {
				return err
			}
			realm := api.NewRealm(st,
				gate.Policy{IdentifierOnly: allowUsernameOnly},
				gate.InMemorySessionStore(gate.DefaultLifetime),
				api.NewCookieSealer(key, gate.DefaultLifetime, insecureCookie))
			return httpserver.Serve(ctx.Context, bindAddr, realm.AsHandler(pageHandler))
		},
	}
}
