package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lectern/internal/cli/scheme/colours"
	"lectern/internal/config"
	"lectern/internal/lecture/hall"
)

func main() {

	config.SetDefaults()
	config.Load()
	config.SetupLogging()

	app := hall.New()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Shutdown()
		fmt.Println("\n" + colours.Warning.Sprint("👋 Goodbye! Keep learning! 🎓"))
	}()

	rootCmd := &cobra.Command{
		Use:   "lectern",
		Short: "🎓 AI lectures, read aloud",
		Long: `
┌─────────────────────────────────────┐
│  🎓 Welcome to Lectern! 📚          │
│  Your virtual lecture hall          │
│  Lectures read aloud 🗣️ ✨          │
└─────────────────────────────────────┘

Lectern generates lectures on any topic, narrates them sentence by
sentence, and answers your questions along the way.
		`,
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowWelcome()
		},
	}

	// Lecture command
	lectureCmd := &cobra.Command{
		Use:   "lecture <topic>",
		Short: "🎙️ Generate a lecture and listen to it",
		Long:  "Generate a lecture on a topic (or reuse one from the library) and narrate it",
		Args:  cobra.MinimumNArgs(1),
		Run:   app.Lecture,
	}

	// Read command
	readCmd := &cobra.Command{
		Use:   "read <file.json|lecture-id>",
		Short: "📖 Narrate a saved lecture",
		Long:  "Narrate a lecture script stored as JSON or kept in the library",
		Args:  cobra.ExactArgs(1),
		Run:   app.Read,
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "📋 List lectures in the library",
		Run:   app.ListLectures,
	}

	// Ask command
	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "🙋 Ask the AI tutor",
		Long:  "Ask the tutor a question, optionally about a lecture",
		Args:  cobra.MinimumNArgs(1),
		Run:   app.Ask,
	}

	// Speak command
	speakCmd := &cobra.Command{
		Use:   "speak <file.json|lecture-id>",
		Short: "💾 Save a lecture as WAV audio",
		Args:  cobra.ExactArgs(1),
		Run:   app.Speak,
	}

	// Voices command
	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "🎤 List voices of the speech engine",
		Run:   app.Voices,
	}

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "🌐 Run the HTTP API",
		Run:   app.Serve,
	}

	// Add flags
	lectureCmd.Flags().IntP("minutes", "m", 10, "Target lecture length in minutes")
	lectureCmd.Flags().Bool("fresh", false, "Generate a new lecture even if one is cached")
	lectureCmd.Flags().Bool("plain", false, "Plain line output instead of the full screen view")
	readCmd.Flags().Bool("plain", false, "Plain line output instead of the full screen view")
	askCmd.Flags().StringP("context-file", "c", "", "Lecture script or text file the question is about")
	speakCmd.Flags().StringP("output", "o", "lecture.wav", "Output WAV file")

	rootCmd.AddCommand(lectureCmd, readCmd, listCmd, askCmd, speakCmd, voicesCmd, serveCmd)

	// Add library commands
	app.AddLibraryCommands(rootCmd)

	err := rootCmd.Execute()
	app.Shutdown()
	if err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}
