// Command splitctl computes expense splits and submits them to the Remote
// Expense API.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
