package api

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api.yaml
var document []byte

var (
	loadOnce sync.Once
	loaded   *openapi3.T
	loadErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document of the HTTP API.
func GetSwagger() (*openapi3.T, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()

		doc, err := loader.LoadFromData(document)
		if err != nil {
			loadErr = err
			return
		}

		if err := doc.Validate(loader.Context); err != nil {
			loadErr = err
			return
		}

		loaded = doc
	})

	return loaded, loadErr
}
