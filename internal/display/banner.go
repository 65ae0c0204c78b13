// Package display holds terminal output helpers: the banner, byte
// formatting, and aligned tables.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/photodater/internal/term"
)

const banner = `       _           _            _       _
 _ __ | |__   ___ | |_ ___   __| | __ _| |_ ___ _ __
| '_ \| '_ \ / _ \| __/ _ \ / _` + "`" + ` |/ _` + "`" + ` | __/ _ \ '__|
| |_) | | | | (_) | || (_) | (_| | (_| | ||  __/ |
| .__/|_| |_|\___/ \__\___/ \__,_|\__,_|\__\___|_|
|_|`

// PrintBanner prints the ASCII art banner, in magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Magenta(banner))
}
