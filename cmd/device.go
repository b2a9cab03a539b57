package cmd

import (
	"github.com/huangsam/deviceinfo/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// deviceCmd groups the device metadata commands.
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Inspect device, OS, app and locale metadata",
}

// deviceInfoCmd prints the device info dictionary.
var deviceInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the device info dictionary",
	Long: `Print the device payload used when registering for push notifications.

Includes:
- Device name, model, type and identifier
- OS name and version
- App name, version, build and identifier
- Locale, language, translation and timezone
- Screen metrics

Token and coordinates are omitted when not given, or reported as null
with --null-missing.

Examples:
  # Show the dictionary as a table
  deviceinfo device info

  # Full payload as JSON
  deviceinfo device info --token 0aff10 --lat 52.52 --lng 13.405 --output json`,
	PreRunE: configSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := core.DeviceInfoRequest{
			Token:          viper.GetString("token"),
			NullForMissing: viper.GetBool("null-missing"),
		}
		if cmd.Flags().Changed("lat") {
			lat := viper.GetFloat64("lat")
			req.Latitude = &lat
		}
		if cmd.Flags().Changed("lng") {
			lng := viper.GetFloat64("lng")
			req.Longitude = &lng
		}
		return core.ExecuteDeviceInfo(rootCtx, cfg, req)
	},
}
