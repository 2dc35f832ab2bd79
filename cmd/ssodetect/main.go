// Package main provides the ssodetect command.
//
// ssodetect finds third-party SSO provider logos on login page screenshots
// and evaluates detections (or DOM inference) against labeled ground truth.
//
// Usage:
//
//	ssodetect match --template-dir logos/ shots/*.png
//	ssodetect evaluate --actual labeled.json --predicted detections.txt
//	ssodetect serve --template-dir logos/
//
// See --help for all available options.
package main

import (
	"fmt"
	"os"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
