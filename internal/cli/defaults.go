package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kroma-labs/tinyhttp/httpclient"
)

// defaultsFile is the YAML shape accepted by --defaults.
//
//	headers:
//	  Accept: application/json
//	json: true
//	timeout: 1000 # milliseconds
//	settings:
//	  region: eu
type defaultsFile struct {
	Headers  map[string]string `yaml:"headers"`
	JSON     *bool             `yaml:"json"`
	Data     map[string]any    `yaml:"data"`
	Query    map[string]any    `yaml:"query"`
	Timeout  int64             `yaml:"timeout"`
	Settings map[string]any    `yaml:"settings"`
}

func (d defaultsFile) options() httpclient.Options {
	return httpclient.Options{
		Headers:  d.Headers,
		JSON:     d.JSON,
		Data:     d.Data,
		Query:    d.Query,
		Timeout:  time.Duration(d.Timeout) * time.Millisecond,
		Settings: d.Settings,
	}
}

// loadDefaults reads client defaults from a YAML file.
func loadDefaults(path string) (httpclient.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return httpclient.Options{}, fmt.Errorf("read defaults: %w", err)
	}

	var d defaultsFile
	if err := yaml.Unmarshal(data, &d); err != nil {
		return httpclient.Options{}, fmt.Errorf("parse defaults %s: %w", path, err)
	}

	return d.options(), nil
}
