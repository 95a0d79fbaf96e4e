// Package docs holds the OpenAPI description of the web gateway.
package docs

import _ "embed"

//go:embed swagger.yaml
var SwaggerYAML []byte
