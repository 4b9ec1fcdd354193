// aget-check is the one-shot CLI: run compliance validators, sanitize
// content, and manage version manifests without a daemon.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
