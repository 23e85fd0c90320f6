package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/client/models"
)

// Rentals prints one page of rentals, newest first. The optional argument
// is a zero based page number.
func (a *App) Rentals(ctx context.Context, args []string) error {
	page := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return errors.New("usage: rentals [page]")
		}
		page = n
	}

	p, err := a.rentalService.List(ctx, page, a.config.PageSize)
	if err != nil {
		return describe(err)
	}

	if len(p.Content) == 0 {
		a.printf("No rentals\n")
		return nil
	}
	for _, r := range p.Content {
		a.printf("#%-5d %-30s %4d m2 %6d  by %s\n", r.ID, r.Name, r.Surface, r.Price, r.OwnerName)
	}
	a.printf("page %d of %d (%d total)\n", p.Page+1, max(p.TotalPages, 1), p.TotalElements)
	return nil
}

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// AddRental prompts for the rental fields and a picture path, then uploads.
func (a *App) AddRental(ctx context.Context) error {
	var in models.NewRental
	var err error

	if in.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if in.Surface, err = a.readInt("Enter surface (m2)"); err != nil {
		return err
	}
	if in.Price, err = a.readInt("Enter monthly price"); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Enter description", a.out); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Enter picture path", a.out)
	if err != nil {
		return err
	}
	picture, err := readFile(path)
	if err != nil {
		return fmt.Errorf("reading picture: %w", err)
	}

	r, err := a.rentalService.Create(ctx, in, filepath.Base(path), picture)
	if err != nil {
		return describe(err)
	}
	a.printf("Rental #%d created, picture at %s\n", r.ID, r.PictureURL)
	return nil
}

func (a *App) readInt(prompt string) (int, error) {
	raw, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive number", raw)
	}
	return n, nil
}

// Message sends a message to the owner of a rental.
func (a *App) Message(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: message <rental id>")
	}
	rentalID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || rentalID <= 0 {
		return errors.New("usage: message <rental id>")
	}

	text, err := GetMultiline(a.reader, "Enter message", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("message is empty")
	}

	m, err := a.rentalService.SendMessage(ctx, rentalID, text)
	if err != nil {
		return describe(err)
	}
	a.printf("Message #%d sent\n", m.ID)
	return nil
}

func joinDetails(d map[string]string) string {
	parts := make([]string, 0, len(d))
	for _, k := range slices.Sorted(maps.Keys(d)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, d[k]))
	}
	return strings.Join(parts, "; ")
}
