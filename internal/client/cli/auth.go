package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatop/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// The new session is active right away.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, name, email, password); err != nil {
		return describe(err)
	}

	a.printf("Registered and logged in as %s\n", a.authService.CurrentUser().Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		return describe(err)
	}

	a.printf("Logged in as %s\n", a.authService.CurrentUser().Email)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.authService.Refresh(ctx)
	if err != nil {
		return describe(err)
	}
	a.printf("#%d %s <%s>, member since %s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
	return nil
}

func (a *App) Logout(context.Context) error {
	a.authService.Logout()
	a.printf("Logged out\n")
	return nil
}

// describe turns API failures into short user-facing errors.
func describe(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return errors.New("server unavailable, try again later")
	case errors.Is(err, client.ErrNotLoggedIn):
		return errors.New("please log in first")
	case errors.As(err, &apiErr) && apiErr.Message != "":
		if len(apiErr.Details) > 0 {
			return errors.New(apiErr.Message + ": " + joinDetails(apiErr.Details))
		}
		return errors.New(apiErr.Message)
	}
	return err
}
