package api

import _ "embed"

// OpenAPISpec is the committed API description served at
// /swagger/openapi.json.
//
//go:embed openapi.json
var OpenAPISpec []byte
