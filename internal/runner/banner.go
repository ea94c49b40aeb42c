package runner

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/ping-network/pkg/version"
)

var banner = `
   ___  (_)__  ___ _  ___  ___ / /__    _____  ____/ /__
  / _ \/ / _ \/ _ '/ / _ \/ -_) __/ |/|/ / _ \/ __/  '_/
 / .__/_/_//_/\_, / /_//_/\__/\__/|__,__/\___/_/ /_/\_\
/_/          /___/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\t%s\n\n", au.Faint(version.String()))
}
