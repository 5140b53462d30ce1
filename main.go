//	@title			EquipSight API
//	@version		1.0
//	@description	EquipSight visualizes chemical equipment parameters from CSV uploads

//	@BasePath	/api/v0

//	@tag.name			auth
//	@tag.description	Account registration, login, and OTP verification

//	@tag.name			datasets
//	@tag.description	Equipment dataset upload and history

//	@tag.name			reports
//	@tag.description	PDF report generation

package main

import (
	"os"

	"github.com/equipsight/equipsight/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
