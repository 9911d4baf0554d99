package hall

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/cli/scheme/colours"
	"lectern/internal/lecture/speech"
)

func (h *Hall) ListLectures(cmd *cobra.Command, args []string) {
	fmt.Println()
	colours.Title.Println("📚 Your Lecture Library 📚")
	fmt.Println()

	summaries, err := lectureCache(nil).List()
	if err != nil {
		colours.Error.Printf("❌ Failed to read library: %v\n", err)
		return
	}

	for i, s := range summaries {
		fmt.Printf("  %d. ", i+1)
		colours.Title.Printf("%s", s.Title)
		fmt.Println()
		fmt.Printf("     🎯 Topic: %s | ⏱️ Duration: %d minutes | 📑 Sections: %d\n",
			s.Topic, s.TargetDurationMinutes, s.Sections)
		fmt.Printf("     🕐 Generated: %s", s.GeneratedAt.Local().Format("2006-01-02 15:04"))
		if !s.Fresh {
			colours.Warning.Print(" (stale)")
		}
		fmt.Println()
		colours.Muted.Printf("     ID: %s\n", s.ID)
		fmt.Println()
	}

	if len(summaries) == 0 {
		colours.Warning.Println("🔍 No lectures yet.")
		colours.Info.Println("💡 Run 'lectern lecture <topic>' to generate one")
	} else {
		colours.Success.Printf("✨ Found %d lectures! ✨\n", len(summaries))
	}
}

// ShowLibraryStatus displays information about the lecture cache
func (h *Hall) ShowLibraryStatus(cmd *cobra.Command, args []string) {
	colours.Title.Println("📊 Lecture Library Status")

	info, err := lectureCache(nil).GetCacheInfo()
	if err != nil {
		colours.Error.Printf("❌ Failed to get cache info: %v\n", err)
		return
	}

	colours.Info.Printf("📁 Location: %s\n", info["directory"].(string))
	if info["lectures"].(int) == 0 {
		colours.Warning.Println("❌ Library is empty")
		return
	}
	colours.Info.Printf("📚 Lectures: %d (%d fresh)\n", info["lectures"].(int), info["fresh"].(int))
	colours.Info.Printf("📏 Size: %d bytes\n", info["size"].(int64))
	colours.Info.Printf("⏳ Max age: %.1f hours\n", info["max_age_hours"].(float64))
}

func (h *Hall) ClearLibrary(cmd *cobra.Command, args []string) {
	colours.Info.Println("🧹 Clearing lecture library...")

	if err := lectureCache(nil).ClearCache(); err != nil {
		colours.Error.Printf("❌ Failed to clear library: %v\n", err)
		return
	}
	colours.Success.Println("✅ Library cleared")

	if withSpeech, _ := cmd.Flags().GetBool("speech"); withSpeech {
		h.clearSpeechCache()
	}
}

func (h *Hall) clearSpeechCache() {
	arbiter, err := h.speechArbiter()
	if err != nil {
		colours.Warning.Printf("⚠️ Speech engine not available: %v\n", err)
		return
	}
	cacheable, ok := arbiter.Engine().(speech.CacheableEngine)
	if !ok {
		colours.Info.Println("ℹ️  The speech engine keeps no cache")
		return
	}
	if err := cacheable.ClearCache(); err != nil {
		colours.Error.Printf("❌ Failed to clear speech cache: %v\n", err)
		return
	}
	colours.Success.Println("✅ Speech cache cleared")
}

// AddLibraryCommands registers the library command group on root.
func (h *Hall) AddLibraryCommands(rootCmd *cobra.Command) {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "🏛️ Manage the lecture library",
		Long:  "Inspect and clear the local cache of generated lectures",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "📊 Show library status",
		Long:  "Display information about the local lecture cache",
		Run:   h.ShowLibraryStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "🧹 Remove all cached lectures",
		Run:   h.ClearLibrary,
	}
	clearCmd.Flags().Bool("speech", false, "Also clear synthesized speech clips")

	libraryCmd.AddCommand(statusCmd, clearCmd)
	rootCmd.AddCommand(libraryCmd)
}
