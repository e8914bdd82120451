package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/emotion"
	"github.com/dtroode/emotion-log/internal/model"
)

const chartWidth = 30

func (a *App) signUp(ctx context.Context, args []string) error {
	fs := a.flagSet("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password, at least 8 characters")
	if _, err := parseArgs(fs, args); err != nil {
		return usageErr(err)
	}

	var err error
	if *email, err = a.prompt("Email", *email); err != nil {
		return err
	}
	if *password, err = a.prompt("Password", *password); err != nil {
		return err
	}

	if err := a.client.Auth.SignUp(ctx, *name, *email, *password); err != nil {
		return err
	}

	a.printf("Account created. Run `moodlog login` to sign in.\n")
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if _, err := parseArgs(fs, args); err != nil {
		return usageErr(err)
	}

	var err error
	if *email, err = a.prompt("Email", *email); err != nil {
		return err
	}
	if *password, err = a.prompt("Password", *password); err != nil {
		return err
	}

	if err := a.client.Auth.Login(ctx, *email, *password); err != nil {
		return err
	}
	a.client.Auth.WaitProfile()

	if p := a.client.State.CurrentProfile(); p != nil {
		a.printf("Logged in as %s.\n", displayName(*p))
		return nil
	}
	if !a.client.State.Authenticated() {
		return apierrors.ErrUnauthorized
	}
	a.printf("Logged in.\n")
	return nil
}

func (a *App) logout(_ context.Context, _ []string) error {
	if !a.client.State.Authenticated() {
		a.printf("You are not logged in.\n")
		return nil
	}
	a.client.Auth.Logout()
	a.printf("Logged out.\n")
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	p, err := a.client.Auth.GetProfile(ctx)
	if err != nil {
		return err
	}

	a.printf("ID:    %s\n", p.ID)
	a.printf("Email: %s\n", p.Email)
	if p.Name != "" {
		a.printf("Name:  %s\n", p.Name)
	}
	return nil
}

func (a *App) newEntry(ctx context.Context, args []string) error {
	fs := a.flagSet("new")
	date := fs.String("date", "", "day of the entry, defaults to today")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) == 0 {
		a.printf("Usage: moodlog %s\nLevels: %s\n", a.commands["new"].usage, levelNames())
		return errUsage
	}

	level, ok := parseLevel(positional[0])
	if !ok {
		return apierrors.NewErrValidation("validation failed", map[string]string{
			"emotionLevel": "must be one of: " + levelNames(),
		})
	}

	if *date == "" {
		*date = model.LogDateOf(a.now()).String()
	}
	req := model.SaveLogRequest{LogDate: *date, EmotionLevel: level}
	if memo := strings.TrimSpace(strings.Join(positional[1:], " ")); memo != "" {
		req.Memo = &memo
	}

	if _, err := a.client.Logs.Save(ctx, req); err != nil {
		return err
	}

	a.printf("Saved %s %s for %s.\n", emotion.Emoji(level), emotion.Label(level), *date)
	return nil
}

func (a *App) logs(ctx context.Context, args []string) error {
	filter, err := a.monthArg(args)
	if err != nil {
		return err
	}

	logs, err := a.client.Logs.List(ctx, &filter)
	if err != nil {
		return err
	}

	a.printf("%s %d\n", filter.Month, filter.Year)
	if len(logs) == 0 {
		a.printf("No entries.\n")
		return nil
	}
	for _, entry := range logs {
		line := fmt.Sprintf("%s  %s %-8s", entry.LogDate, emotion.Emoji(entry.EmotionLevel), emotion.Label(entry.EmotionLevel))
		if entry.Memo != nil {
			line += "  " + *entry.Memo
		}
		a.printf("%s\n", strings.TrimRight(line, " "))
	}
	return nil
}

func (a *App) chart(ctx context.Context, args []string) error {
	filter, err := a.monthArg(args)
	if err != nil {
		return err
	}

	logs, err := a.client.Logs.List(ctx, &filter)
	if err != nil {
		return err
	}

	a.printf("%s %d\n", filter.Month, filter.Year)
	counts := emotion.CountByLevel(logs)
	if len(counts) == 0 {
		a.printf("No entries.\n")
		return nil
	}
	a.printf("%s", renderChart(counts))
	return nil
}

func (a *App) export(ctx context.Context, _ []string) error {
	result, err := a.client.Logs.Export(ctx)
	if err != nil {
		return err
	}

	a.printf("Export written to %s.\n", result.Key)
	return nil
}

func (a *App) health(ctx context.Context, _ []string) error {
	status, err := a.client.Health(ctx)
	if err != nil {
		return err
	}

	a.printf("Server is %s.\n", status.Status)
	return nil
}

// monthArg parses an optional YYYY-MM argument, defaulting to the current month.
func (a *App) monthArg(args []string) (model.LogFilter, error) {
	if len(args) == 0 {
		now := a.now()
		return model.LogFilter{Year: now.Year(), Month: now.Month()}, nil
	}

	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return model.LogFilter{}, apierrors.NewErrValidation("validation failed", map[string]string{
			"month": "must be in YYYY-MM format",
		})
	}
	return model.LogFilter{Year: t.Year(), Month: t.Month()}, nil
}

func renderChart(counts []emotion.Count) string {
	highest := 0
	for _, c := range counts {
		if c.Count > highest {
			highest = c.Count
		}
	}

	var b strings.Builder
	for _, c := range counts {
		width := c.Count * chartWidth / highest
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "%s %-8s %s %d\n", emotion.Emoji(c.Level), emotion.Label(c.Level), strings.Repeat("#", width), c.Count)
	}
	return b.String()
}

// parseLevel accepts wire names (very_good) and display labels (Great), case-insensitively.
func parseLevel(s string) (model.EmotionLevel, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, level := range model.EmotionLevels {
		if s == string(level) || s == strings.ReplaceAll(string(level), "_", "-") || s == strings.ToLower(emotion.Label(level)) {
			return level, true
		}
	}
	return "", false
}

func levelNames() string {
	names := make([]string, 0, len(model.EmotionLevels))
	for _, level := range model.EmotionLevels {
		names = append(names, string(level))
	}
	return strings.Join(names, ", ")
}

func displayName(p model.Profile) string {
	if p.Name != "" {
		return fmt.Sprintf("%s <%s>", p.Name, p.Email)
	}
	return p.Email
}

func usageErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errUsage
	}
	return apierrors.NewErrValidation(err.Error(), nil)
}
