package main

import (
	"fmt"
	"os"

	"github.com/Kush-Singh-26/autopost/internal/clean"
	"github.com/Kush-Singh-26/autopost/internal/generate"
	"github.com/Kush-Singh-26/autopost/internal/publish"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		os.Exit(generate.Run(args))
	case "publish":
		os.Exit(publish.Run(args))
	case "index":
		os.Exit(showIndex(args))
	case "cache":
		handleCacheCommand(args)
	case "clean":
		os.Exit(clean.Run(args))
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: autopost <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  run            Generate posts, update the index and publish")
	fmt.Println("  publish        Upload the local content directory only")
	fmt.Println("  index          Print the post catalog")
	fmt.Println("  cache <sub>    Inspect or clear the cache (stats, runs, gc, clear)")
	fmt.Println("  clean          Remove temporary files (-cache also deletes the cache)")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for run and publish:")
	fmt.Println("  -config <path> Configuration file (default autopost.yaml)")
	fmt.Println("  -posts <n>     Number of posts to generate")
	fmt.Println("  -out <dir>     Local content directory")
	fmt.Println("  -no-publish    Generate only")
	fmt.Println("  -protocol <p>  ftp, ftps or sftp")
	fmt.Println("  -compress      Minify documents and re-encode images as WebP")
	fmt.Println("  -verbose       Debug logging")
	fmt.Println("\nExit codes: 0 published, 1 no content, 2 generated but not published")
}
