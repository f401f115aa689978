// Command lsroute computes link-state routing tables from a cost matrix file.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
