package bundler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"git.home.luguber.info/inful/skypages/internal/bundle"
)

// configDataPrefix starts the line carrying the JSON-encoded configuration.
const configDataPrefix = "const config = "

// The bundler cannot take rule tests or plugin instances as JSON, so the
// configuration is shipped as a module that revives them. Plugin modules
// are resolved from the project and the package installs. encoding/json
// escapes <, > and & and the line separators, so the data line is a valid
// script literal.
var configModuleTemplate = template.Must(template.New("bundle-config").Parse(`'use strict';

const path = require('path');

{{.Prefix}}{{.Data}};

const lookup = [config.context].concat(
  ((config.resolve && config.resolve.modules) || []).map((dir) => path.dirname(dir))
);

config.module.rules = (config.module.rules || []).map((rule) =>
  Object.assign({}, rule, { test: new RegExp(rule.test) })
);

config.plugins = (config.plugins || []).map((plugin) => {
  const exported = require(require.resolve(plugin.module, { paths: lookup }))[plugin.export];
  return new exported(plugin.options || {});
});

module.exports = config;
`))

// ConfigModule renders cfg as a bundler configuration module.
func ConfigModule(cfg *bundle.Config) ([]byte, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	var buf bytes.Buffer
	err = configModuleTemplate.Execute(&buf, struct {
		Prefix string
		Data   string
	}{Prefix: configDataPrefix, Data: string(data)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	return buf.Bytes(), nil
}
