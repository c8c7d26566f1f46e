// Package snake fills in cobra flags interactively with promptui.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Prompter asks one question at a time.
type Prompter interface {
	Select(label string, items []string, current string) (string, error)
	Prompt(label, current string, validate func(string) error) (string, error)
}

// Choices lists the accepted values for a flag. A flag with choices is picked
// from a list instead of typed.
type Choices map[string][]string

// Validators checks typed answers per flag.
type Validators map[string]func(string) error

// FillFlags asks for every string or bool flag of cmd that was not set on the
// command line, except those named in skip, and sets the answers. An empty
// answer leaves the flag at its default.
func FillFlags(cmd *cobra.Command, p Prompter, choices Choices, validate Validators, skip ...string) error {
	var missing []*pflag.Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Hidden || contains(skip, f.Name) {
			return
		}
		switch f.Value.Type() {
		case "string", "bool":
			missing = append(missing, f)
		}
	})

	for _, f := range missing {
		answer, err := ask(p, f, choices[f.Name], validate[f.Name])
		if err != nil {
			return err
		}
		if answer == "" {
			continue
		}
		if err := cmd.Flags().Set(f.Name, answer); err != nil {
			return fmt.Errorf("snake: --%s: %w", f.Name, err)
		}
	}
	return nil
}

func ask(p Prompter, f *pflag.Flag, choices []string, validate func(string) error) (string, error) {
	label := fmt.Sprintf("%s (%s)", asFlags(f), f.Usage)
	switch {
	case len(choices) > 0:
		return p.Select(label, choices, f.Value.String())
	case f.Value.Type() == "bool":
		answer, err := p.Select(label, []string{"false", "true"}, f.Value.String())
		if err != nil || answer == "" {
			return "", err
		}
		b, err := ParseBool(answer)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		return p.Prompt(label, f.Value.String(), validate)
	}
}

// Required rejects empty input.
func Required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("empty")
	}
	return nil
}

// Terminal prompts on a terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . | magenta }}",
	Active:   "➜ {{ . | bold }}",
	Inactive: "  {{ . }}",
	Selected: "{{ . | bold | green }}",
}

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

func (t Terminal) Select(label string, items []string, current string) (string, error) {
	cursor := 0
	for i, item := range items {
		if item == current {
			cursor = i
		}
	}
	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     items,
		Templates: selectTemplates,
		Size:      10,
		CursorPos: cursor,
		Stdin:     io.NopCloser(t.In),
		Stdout:    nopWriteCloser{t.Out},
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("snake: prompt failed: %w", err)
	}
	return result, nil
}

func (t Terminal) Prompt(label, current string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		Templates: promptTemplates,
		Validate: func(input string) error {
			if validate == nil || input == "" {
				return nil
			}
			return validate(input)
		},
		Stdin:  io.NopCloser(t.In),
		Stdout: nopWriteCloser{t.Out},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("snake: prompt failed: %w", err)
	}
	return strings.TrimSpace(result), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func asFlags(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
