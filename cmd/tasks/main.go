package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/task-tracker/internal/client"
	"github.com/Tomlord1122/task-tracker/internal/tui"
)

func main() {
	defaultURL := os.Getenv("TASKS_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:3000"
	}
	apiURL := flag.String("api", defaultURL, "base URL of the task tracker API")
	flag.Parse()

	c, err := client.New(*apiURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := tui.Run(c); err != nil {
		fmt.Fprintln(os.Stderr, "tasks:", err)
		os.Exit(1)
	}
}
