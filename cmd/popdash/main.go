// Command popdash serves and queries the world population dashboard.
package main

import "popdash/internal/cli"

func main() {
	cli.Execute()
}
