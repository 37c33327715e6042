package ui

import (
	"fmt"

	"noisebatch/pkg/models"
)

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info line
func PrintInfo(label string, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintSummary prints the outcome of a batch run
func PrintSummary(source string, effective models.TimeRange, partitions, artifacts, uploaded int) {
	PrintInfo("Source", source)
	PrintInfo("Range", effective.String())
	PrintInfo("Partitions", fmt.Sprintf("%d", partitions))
	PrintInfo("Artifacts", fmt.Sprintf("%d", artifacts))
	if uploaded > 0 {
		PrintInfo("Uploaded", fmt.Sprintf("%d", uploaded))
	}
}
