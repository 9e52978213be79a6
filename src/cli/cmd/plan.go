package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NiceneNerd/ukmm-release/src/cargo"
	"github.com/NiceneNerd/ukmm-release/src/output"
	"github.com/NiceneNerd/ukmm-release/src/pipeline"
)

var planTag string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the resolved pipeline plan without executing it",
	Long: `Resolve profiles, capability flags, artifact names, and build env
pins for a release tag, and print them without running anything.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planTag, "tag", "", "release tag to resolve names against (default: detected)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	color := output.UseColor()
	w := os.Stdout

	appName, _, err := resolveApp(rootDir)
	if err != nil {
		return err
	}

	tag, _, err := resolveTag(rootDir, planTag)
	if err != nil {
		return err
	}

	profiles, err := pipeline.ResolveProfiles(cfg.Profiles)
	if err != nil {
		return err
	}

	output.ContextBlock(w, []output.KV{
		{Key: "tag", Value: tag},
		{Key: "app", Value: appName},
		{Key: "toolchain", Value: cfg.Build.Toolchain},
		{Key: "profiles", Value: fmt.Sprintf("%d", len(profiles))},
	})

	for _, p := range profiles {
		sec := output.NewSection(w, p.Platform, 0, color)
		sec.Row("runner        %s", p.Runner)
		sec.Row("binary        %s", p.BinaryName(appName))
		sec.Row("gtk install   %s", boolWord(p.NeedsGUIToolkit))
		sec.Row("upx           %s", boolWord(p.SupportsCompression))
		sec.Row("artifact      %s", p.ArchiveName(appName, tag))
		sec.Close()
	}

	sec := output.NewSection(w, "build env", 0, color)
	for _, env := range cargo.ReleaseEnv("{platform}") {
		sec.Row("%s", env)
	}
	sec.Close()

	fmt.Fprintf(w, "\n    %s\n", output.Dimmed(
		fmt.Sprintf("assets: %s", strings.Join(assetNames(profiles, appName, tag), ", ")), color))
	return nil
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func assetNames(profiles []pipeline.Profile, app, tag string) []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.ArchiveName(app, tag))
	}
	return names
}
