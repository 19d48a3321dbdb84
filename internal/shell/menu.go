package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// Menu asks the user for a history action and returns it as command
// arguments, e.g. ["delete", "2"]. An empty result means "go back".
type Menu func(ctx context.Context, size int) ([]string, error)

const actionBack = "back"

// HuhMenu is the terminal history menu.
func HuhMenu(ctx context.Context, size int) ([]string, error) {
	options := make([]huh.Option[string], 0, len(historyActions)+1)
	for _, a := range historyActions {
		options = append(options, huh.NewOption(a.label, a.name))
	}
	options = append(options, huh.NewOption("Return to the main menu", actionBack))

	var choice string
	sel := huh.NewSelect[string]().
		Title(fmt.Sprintf("History Menu (%d calculation(s))", size)).
		Options(options...).
		Value(&choice)

	if err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	switch choice {
	case actionBack:
		return nil, nil
	case "delete":
		if size == 0 {
			return []string{choice}, nil
		}
		return deletePrompt(ctx, size)
	default:
		return []string{choice}, nil
	}
}

func deletePrompt(ctx context.Context, size int) ([]string, error) {
	var index string
	input := huh.NewInput().
		Title("Index of the calculation to delete").
		Placeholder(fmt.Sprintf("1-%d", size)).
		Value(&index).
		Validate(func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > size {
				return fmt.Errorf("enter a number between 1 and %d", size)
			}
			return nil
		})

	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	return []string{"delete", index}, nil
}
