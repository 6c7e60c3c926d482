package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X lampreasvioleta.com/storefront/internal/version.Version=1.2.3"
var Version = "0.1"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	return fmt.Sprintf("%s\nStorefront (v%s)\nLampreas Violeta %s\n", logo(), Version, y)
}

func logo() string {
	const s = `
  ___ _                 __                _
 / __| |_ ___ _ _ ___  / _|_ _ ___ _ _  | |_
 \__ \  _/ _ \ '_/ -_)|  _| '_/ _ \ ' \ |  _|
 |___/\__\___/_| \___||_| |_| \___/_||_| \__|
`
	return s
}
