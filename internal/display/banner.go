package display

import (
	"fmt"
	"io"

	"github.com/backmassage/directscan/internal/term"
)

const banner = `     _ _               _
  __| (_)_ __ ___  ___| |_ ___  ___ __ _ _ __
 / _` + "`" + ` | | '__/ _ \/ __| __/ __|/ __/ _` + "`" + ` | '_ \
| (_| | | | |  __/ (__| |_\__ \ (_| (_| | | | |
 \__,_|_|_|  \___|\___|\__|___/\___\__,_|_| |_|
`

// PrintBanner writes the ASCII art banner to w, in magenta when colours are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
}
