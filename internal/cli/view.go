package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/splatview/splatview/internal/events"
	"github.com/splatview/splatview/internal/models"
	"github.com/splatview/splatview/internal/state"
)

// newViewCmd creates the 'view' command.
func newViewCmd() *cobra.Command {
	var asJSON bool
	flags := make(map[state.Setting]*bool, len(state.AllSettings))

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show or change viewer render settings",
		Long: `Apply the viewer toolbar toggles and print the resulting settings.

Only flags given on the command line are applied; the others keep their
default (off).

Examples:
  splatview view --dark-mode
  splatview view --inverted --cool-tone --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bus := events.NewEventBus(GetConfig().Events.BufferSize)
			defer bus.Close()
			changes := bus.Subscribe(events.EventViewSettingsChanged)

			settings := state.NewViewSettingsState(bus)
			for _, s := range state.AllSettings {
				if !cmd.Flags().Changed(string(s)) {
					continue
				}
				if err := settings.Set(s, *flags[s]); err != nil {
					return err
				}
			}

			log := GetLogger().Named("view")
			for len(changes) > 0 {
				if ev, ok := (<-changes).(*state.ViewSettingsChangedEvent); ok {
					log.Debug().Str("setting", string(ev.Changed)).Msg("View setting changed")
				}
			}

			return printViewSettings(cmd.OutOrStdout(), settings.Get(), asJSON)
		},
	}

	for _, s := range state.AllSettings {
		flags[s] = new(bool)
		cmd.Flags().BoolVar(flags[s], string(s), false, "Turn "+settingLabel(s)+" on or off")
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func settingLabel(s state.Setting) string {
	switch s {
	case state.SettingDarkMode:
		return "dark mode"
	case state.SettingInverted:
		return "inverted colors"
	case state.SettingSixShades:
		return "six-shade palette"
	case state.SettingCoolTone:
		return "cool tone"
	default:
		return string(s)
	}
}

func printViewSettings(out io.Writer, v models.ViewSettings, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	_, err := fmt.Fprintf(out, "Dark mode:   %s\nInverted:    %s\nSix shades:  %s\nCool tone:   %s\n",
		onOff(v.DarkMode), onOff(v.Inverted), onOff(v.SixShades), onOff(v.CoolTone))
	return err
}
