package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrPromptAborted is returned when the operator cancels a prompt.
// Cancellation is the sole abort primitive and is honored immediately.
var ErrPromptAborted = errors.New("prompt aborted by operator")

// Prompter is the interface the core needs from the interactive
// rendering layer: menus, binary choices, masked credential capture and
// progress reporting. The core never talks to a terminal directly.
type Prompter interface {
	// Select shows a menu and returns the value of the chosen option.
	Select(title string, options []PromptOption) (string, error)
	// Confirm asks a binary question. defaultYes picks the preselected
	// button.
	Confirm(question, affirmative, negative string, defaultYes bool) (bool, error)
	// Input reads a single line of text.
	Input(title, placeholder string) (string, error)
	// Password reads a masked credential. The value is returned to the
	// caller and nowhere else.
	Password(title string) (string, error)
	// Message shows a message and waits for acknowledgement where the
	// rendering layer supports it.
	Message(text string)
	// Progress reports fractional progress of a multi-step operation.
	Progress(completed, total int, detail string)
}

// PromptOption is one selectable menu entry.
type PromptOption struct {
	Label string
	Value string
}

// huhPrompter renders prompts with charmbracelet/huh forms.
type huhPrompter struct{}

// newPrompter picks the huh renderer on a real terminal and the plain
// line-based fallback otherwise. No usable stdin at all is a fatal
// setup condition handled by the caller.
func newPrompter() Prompter {
	if term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd())) {
		return &huhPrompter{}
	}
	return &plainPrompter{reader: bufio.NewReader(os.Stdin)}
}

func (p *huhPrompter) Select(title string, options []PromptOption) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&selected).
		Run()
	if err != nil {
		return "", translateHuhErr(err)
	}
	return selected, nil
}

func (p *huhPrompter) Confirm(question, affirmative, negative string, defaultYes bool) (bool, error) {
	answer := defaultYes
	err := huh.NewConfirm().
		Title(question).
		Affirmative(affirmative).
		Negative(negative).
		Value(&answer).
		Run()
	if err != nil {
		return false, translateHuhErr(err)
	}
	return answer, nil
}

func (p *huhPrompter) Input(title, placeholder string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Run()
	if err != nil {
		return "", translateHuhErr(err)
	}
	return strings.TrimSpace(value), nil
}

func (p *huhPrompter) Password(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	if err != nil {
		return "", translateHuhErr(err)
	}
	return value, nil
}

func (p *huhPrompter) Message(text string) {
	fmt.Println(text)
}

func (p *huhPrompter) Progress(completed, total int, detail string) {
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("[%d/%d] %3d%% %s", completed, total, pct, detail)))
}

func translateHuhErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrPromptAborted
	}
	return err
}

// plainPrompter is the line-based fallback for non-terminal stdout
// (e.g. output piped to a file). Selections are numbered, confirmation
// is y/n, and PIN entry falls back to a raw terminal read when stdin is
// still a TTY.
type plainPrompter struct {
	reader *bufio.Reader
}

func (p *plainPrompter) Select(title string, options []PromptOption) (string, error) {
	fmt.Println(title)
	for i, o := range options {
		fmt.Printf("  %d) %s\n", i+1, o.Label)
	}
	fmt.Printf("> ")
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return "", ErrPromptAborted
	}
	selection, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || selection < 1 || selection > len(options) {
		// An unrecognized selection is a clean abort, never a runtime
		// error.
		fmt.Println(T("invalid_selection"))
		return "", ErrPromptAborted
	}
	return options[selection-1].Value, nil
}

func (p *plainPrompter) Confirm(question, affirmative, negative string, defaultYes bool) (bool, error) {
	fmt.Printf("%s [%s/%s] ", question, affirmative, negative)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return false, ErrPromptAborted
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes" || strings.EqualFold(answer, affirmative), nil
}

func (p *plainPrompter) Input(title, placeholder string) (string, error) {
	fmt.Printf("%s: ", title)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return "", ErrPromptAborted
	}
	return strings.TrimSpace(line), nil
}

func (p *plainPrompter) Password(title string) (string, error) {
	fmt.Printf("%s: ", title)
	if term.IsTerminal(int(syscall.Stdin)) {
		pin, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", ErrPromptAborted
		}
		return string(pin), nil
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return "", ErrPromptAborted
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *plainPrompter) Message(text string) {
	fmt.Println(text)
}

func (p *plainPrompter) Progress(completed, total int, detail string) {
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	fmt.Printf("[%d/%d] %3d%% %s\n", completed, total, pct, detail)
}
