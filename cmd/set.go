package cmd

import (
	"fmt"
	"log"

	"github.com/ThatOtherAndrew/Horologe/internal/config"
	"github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Change a setting in the settings file",
	Args:              cobra.ExactArgs(2),
	Run:               setSetting,
	ValidArgsFunction: completeSetting,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func setSetting(cmd *cobra.Command, args []string) {
	path, err := settingsPath()
	if err != nil {
		log.Fatal("Failed to get config path:", err)
	}

	if _, err := config.Set(path, args[0], args[1]); err != nil {
		log.Fatal("Failed to save setting: ", err)
	}

	fmt.Printf("Set %s to %s\n", args[0], args[1])
}

func completeSetting(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		switch args[0] {
		case "face":
			return draw.FaceNames(), cobra.ShellCompDirectiveNoFileComp
		case "display_shape":
			return []string{"round", "square"}, cobra.ShellCompDirectiveNoFileComp
		case "log_level":
			return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
		case "decal", "sprite":
			return nil, cobra.ShellCompDirectiveDefault
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
