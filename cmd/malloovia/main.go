// Command malloovia validates and solves two-phase VM cost optimization
// problems described by YAML problem documents.
package main

import "github.com/malloovia/malloovia/cmd/malloovia/cmd"

func main() {
	cmd.Execute()
}
