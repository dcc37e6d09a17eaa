package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Prompter collects input a command was not given on the command line.
type Prompter interface {
	Category() (domain.InsightCategory, error)
	ChatMessage(turn int) (string, error)
	Location() (string, error)
	UserInfo(current domain.UserInfo) (domain.UserInfo, error)
	Confirm(title string) (bool, error)
}

// errNoInput is returned when input is required but cannot be prompted for.
var errNoInput = errors.New("missing input and no terminal to prompt on")

func fortuneHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// HuhPrompter asks on the terminal with huh forms.
type HuhPrompter struct{}

func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(fortuneHuhTheme()).
		WithShowHelp(false).
		Run()
}

func (HuhPrompter) Category() (domain.InsightCategory, error) {
	cat := string(domain.CategoryDaily)
	options := make([]huh.Option[string], 0, len(categoryOrder))
	for _, c := range categoryOrder {
		options = append(options, huh.NewOption(c.DisplayName(), string(c)))
	}
	err := runForm(huh.NewSelect[string]().
		Title("What should today's reading focus on?").
		Options(options...).
		Value(&cat))
	return domain.InsightCategory(cat), err
}

func (HuhPrompter) ChatMessage(turn int) (string, error) {
	var msg string
	err := runForm(huh.NewInput().
		Title(fmt.Sprintf("Message %d/%d", turn, domain.MaxChatExchanges)).
		Placeholder("How was your day?").
		Value(&msg).
		Validate(validateMessage))
	return strings.TrimSpace(msg), err
}

func (HuhPrompter) Location() (string, error) {
	var loc string
	err := runForm(huh.NewInput().
		Title("Where are you today?").
		Placeholder("Seoul").
		Value(&loc))
	return strings.TrimSpace(loc), err
}

func (HuhPrompter) UserInfo(current domain.UserInfo) (domain.UserInfo, error) {
	name, birth := current.Name, current.BirthDate
	err := runForm(
		huh.NewInput().Title("Name").Value(&name).Validate(validateName),
		huh.NewInput().Title("Birth date").Placeholder("1990-05-05 or 900505").Value(&birth).Validate(validateBirthDate),
	)
	return domain.UserInfo{Name: strings.TrimSpace(name), BirthDate: domain.NormalizeBirthDate(strings.TrimSpace(birth))}, err
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewConfirm().Title(title).Value(&ok))
	return ok, err
}

var categoryOrder = []domain.InsightCategory{
	domain.CategoryDaily,
	domain.CategoryLove,
	domain.CategoryStudy,
	domain.CategoryCareer,
	domain.CategoryHealth,
}

func validateMessage(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("say something first")
	}
	return nil
}

func validateName(s string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(s)); n < 2 || n > 20 {
		return fmt.Errorf("use 2 to 20 characters")
	}
	return nil
}

func validateBirthDate(s string) error {
	if _, err := domain.ParseDayKey(domain.NormalizeBirthDate(strings.TrimSpace(s))); err != nil {
		return fmt.Errorf("use YYYY-MM-DD, YYYYMMDD or YYMMDD")
	}
	return nil
}
