package main

import (
	"github.com/fatih/color"

	"github.com/hat-tools/upshat/pkg/client"
)

func apiClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

// alert renders a condition where true is the bad outcome, e.g. battery-low.
func alert(b bool) string {
	if b {
		return color.New(color.Bold, color.FgRed).Sprint("Yes")
	}
	return color.New(color.FgGreen).Sprint("No")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
