package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kroma-labs/tinyhttp/httpclient"
)

type requestFlags struct {
	headers  []string
	query    []string
	data     []string
	json     bool
	timeout  time.Duration
	defaults string
	debug    bool
	noColor  bool
}

func newRequestCmd(name string) *cobra.Command {
	method := strings.ToUpper(name)
	f := &requestFlags{}

	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Send a %s request to URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `header as "Name: value" (repeatable)`)
	flags.StringArrayVarP(&f.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	flags.BoolVar(&f.json, "json", false, "send data as JSON and decode a JSON response")
	flags.DurationVarP(&f.timeout, "timeout", "t", 0, "request timeout (default 5s)")
	flags.StringVar(&f.defaults, "defaults", "", "YAML file with client defaults")
	flags.BoolVar(&f.debug, "debug", false, "log request and response to stderr")
	flags.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	if method == http.MethodPut {
		flags.StringArrayVarP(&f.data, "data", "d", nil, "body field as key=value (repeatable)")
	}

	return cmd
}

func runRequest(cmd *cobra.Command, method, rawURL string, f *requestFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: f.noColor}).
		With().Timestamp().Logger()

	client := httpclient.New(
		httpclient.WithDebug(f.debug),
		httpclient.WithLogger(logger),
		httpclient.WithServiceName("tinyhttp-cli"),
	)

	if f.defaults != "" {
		defaults, err := loadDefaults(f.defaults)
		if err != nil {
			return err
		}
		client.SetDefaults(defaults)
	}

	start := time.Now()

	var res *httpclient.Result
	switch method {
	case http.MethodPut:
		res, err = client.Put(cmd.Context(), rawURL, opts)
	default:
		res, err = client.Get(cmd.Context(), rawURL, opts)
	}
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), f.noColor)
	p.status(res, time.Since(start))
	return p.body(res)
}

// options converts the flags into call-site options. Unset flags stay
// nil so the defaults file can fill them in.
func (f *requestFlags) options() (*httpclient.Options, error) {
	opts := &httpclient.Options{Timeout: f.timeout}

	if f.json {
		opts.JSON = httpclient.Bool(true)
	}

	if len(f.headers) > 0 {
		opts.Headers = make(map[string]string, len(f.headers))
		for _, h := range f.headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q: want \"Name: value\"", h)
			}
			opts.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}

	var err error
	if opts.Query, err = parsePairs("query", f.query, false); err != nil {
		return nil, err
	}
	if opts.Data, err = parsePairs("data", f.data, f.json); err != nil {
		return nil, err
	}

	return opts, nil
}

// parsePairs turns key=value arguments into a map. With typed set, values
// that are valid JSON keep their JSON type so --json bodies carry numbers
// and booleans.
func parsePairs(kind string, pairs []string, typed bool) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q: want key=value", kind, p)
		}

		out[key] = value
		if typed {
			var v any
			if err := json.Unmarshal([]byte(value), &v); err == nil {
				out[key] = v
			}
		}
	}
	return out, nil
}
