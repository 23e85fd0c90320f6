package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL needs. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Rentals(ctx context.Context, args []string) error
	AddRental(ctx context.Context) error
	Message(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from scanner until "exit"/"quit" or EOF.
//
//	Not logged in: help, register, login, exit
//	Logged in:     help, me, rentals [page], addrental, message <rental id>, logout, exit
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "chatop (%s)> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: me, rentals [page], addrental, message <rental id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "me":
			err = a.Me(ctx)

		case "rentals", "l":
			err = a.Rentals(ctx, args)

		case "addrental":
			err = a.AddRental(ctx)

		case "message", "m":
			err = a.Message(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
}
