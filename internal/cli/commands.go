package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/validator"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List stored users and the last backup time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			users := store.StoredUsers(ctx)
			sort.Strings(users)
			fmt.Fprintf(out, "  Stored users: %d\n", len(users))
			for _, id := range users {
				profile := store.Load(ctx, id)
				if profile == nil {
					fmt.Fprintf(out, "    %s  (unreadable)\n", id)
					continue
				}
				entries := 0
				for _, b := range profile.Budgets {
					entries += len(b.Entries)
				}
				fmt.Fprintf(out, "    %s  %s  budgets=%d entries=%d\n", id, profile.Email, len(profile.Budgets), entries)
			}

			if last := store.LastBackup(ctx); last.IsZero() {
				fmt.Fprintln(out, "  Last backup: never")
			} else {
				fmt.Fprintf(out, "  Last backup: %s\n", last.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <user-id>",
		Short: "Write a user's profile document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			profile := store.Load(ctx, args[0])
			if profile == nil {
				return fmt.Errorf("no stored profile for %s", args[0])
			}

			data, err := json.MarshalIndent(profile, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding profile: %w", err)
			}

			if output == "" || output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			store.MarkBackup(ctx)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <user-id> <file>",
		Short: "Replace a user's profile with a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, path := args[0], args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			var profile models.UserProfile
			if err := json.Unmarshal(data, &profile); err != nil {
				return fmt.Errorf("%s is not a valid profile document: %w", path, err)
			}
			if profile.ID == "" {
				profile.ID = userID
			}
			if profile.ID != userID {
				return fmt.Errorf("document belongs to %s, not %s", profile.ID, userID)
			}

			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			if !store.Save(cmd.Context(), userID, &profile) {
				return fmt.Errorf("failed to save profile for %s", userID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Imported %d budget(s) for %s\n", len(profile.Budgets), userID)
			return nil
		},
	}
}

func newSettingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [key=value...]",
		Short: "Show or change device settings (currency, locale, theme)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			settings := store.LoadSettings(ctx)
			for _, arg := range args {
				if err := applySetting(&settings, arg); err != nil {
					return err
				}
			}
			if len(args) > 0 && !store.SaveSettings(ctx, settings) {
				return fmt.Errorf("failed to save settings")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  currency = %s\n", settings.Currency)
			fmt.Fprintf(out, "  locale   = %s\n", settings.Locale)
			fmt.Fprintf(out, "  theme    = %s\n", settings.Theme)
			return nil
		},
	}
}

func applySetting(s *localstore.Settings, arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || value == "" {
		return fmt.Errorf("expected key=value, got %q", arg)
	}
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "currency":
		value = strings.ToUpper(value)
		if !validator.ValidCurrency(value) {
			return fmt.Errorf("unknown currency %q", value)
		}
		s.Currency = value
	case "locale":
		s.Locale = value
	case "theme":
		if value != "light" && value != "dark" {
			return fmt.Errorf("theme must be light or dark")
		}
		s.Theme = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
