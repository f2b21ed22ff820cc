// Package cvgenerator exposes the CV generator as a Cloud Function.
package cvgenerator

import (
	"net/http"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/cv-generator/internal/transport/server"
)

const defaultFunctionTarget = "GenerateCV"

func init() {
	target := os.Getenv("FUNCTION_TARGET")
	if target == "" {
		target = defaultFunctionTarget
	}
	functions.HTTP(target, GenerateCV)
}

// GenerateCV serves the UI and the JSON API for a single function invocation
func GenerateCV(w http.ResponseWriter, r *http.Request) {
	server.HandleRequest(w, r)
}
