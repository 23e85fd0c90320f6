package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/chatop/internal/client/client"
	"github.com/dmitrijs2005/chatop/internal/client/config"
	"github.com/dmitrijs2005/chatop/internal/client/services"
)

type App struct {
	config        *config.Config
	authService   services.AuthService
	rentalService services.RentalService
	reader        *bufio.Reader
	out           io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient)
	rs := services.NewRentalService(apiClient, as)

	return &App{
		config:        c,
		authService:   as,
		rentalService: rs,
		reader:        bufio.NewReader(in),
		out:           out,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentUser() != nil
}

func (a *App) status() string {
	if u := a.authService.CurrentUser(); u != nil {
		return u.Email
	}
	return "anonymous"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to Chatop CLI (type 'help' for commands)\n")
	if err := a.authService.Ping(ctx); err != nil {
		a.printf("warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader), a.out)
}

// Ping checks that the server answers its health endpoint.
func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		return err
	}
	a.printf("%s is UP\n", a.config.ServerURL)
	return nil
}
