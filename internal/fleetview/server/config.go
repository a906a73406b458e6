package server

import (
	"github.com/autopeer-io/fleetview/internal/fleetview/server/http"
	"github.com/autopeer-io/fleetview/pkg/options"
)

type Config struct {
	HttpOptions *options.HttpOptions
	// Ready checks back /readyz.
	Ready []http.ReadyFunc
}
