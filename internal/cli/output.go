package cli

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/kroma-labs/tinyhttp/httpclient"
)

type printer struct {
	out    io.Writer
	errOut io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

func newPrinter(out, errOut io.Writer, noColor bool) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red} {
			c.DisableColor()
		}
	}
	return p
}

// status writes "HTTP 200 OK (12ms)" to the error stream.
func (p *printer) status(res *httpclient.Result, elapsed time.Duration) {
	c := p.green
	switch {
	case res.IsError():
		c = p.red
	case !res.IsSuccess():
		c = p.yellow
	}

	line := fmt.Sprintf("HTTP %d %s", res.StatusCode, http.StatusText(res.StatusCode))
	fmt.Fprintf(p.errOut, "%s (%s)\n", c.Sprint(line), elapsed.Round(time.Millisecond))
}

// body writes the response body, pretty-printed when it decoded as JSON.
func (p *printer) body(res *httpclient.Result) error {
	if !res.Decoded() {
		_, err := fmt.Fprintln(p.out, res.String())
		return err
	}

	pretty, err := json.MarshalIndent(res.Value(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(pretty))
	return err
}
