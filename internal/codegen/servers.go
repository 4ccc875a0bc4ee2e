package codegen

import (
	"net/url"

	"github.com/mark3labs/swagger2sdk/internal/spec"
)

// Server descriptions recognized as environment labels.
const (
	LocalServerLabel = "local_server"
	DevServerLabel   = "dev_server"
	StageServerLabel = "stage_server"
	ProdServerLabel  = "prod_server"
)

var ServerLabels = []string{LocalServerLabel, DevServerLabel, StageServerLabel, ProdServerLabel}

// Endpoint is a server URL split into origin and path.
type Endpoint struct {
	Server string // scheme://host[:port], empty for relative URLs
	Path   string
}

// ServerEndpoints holds one endpoint per environment; unset slots are empty.
type ServerEndpoints struct {
	Local Endpoint
	Dev   Endpoint
	Stage Endpoint
	Prod  Endpoint
}

// ServerEndpoints resolves servers with the configured label policy.
func (r *Renderer) ServerEndpoints(servers []spec.Server) (ServerEndpoints, error) {
	return ResolveServerEndpoints(servers, r.opts.OnUnmatchedServerLabel)
}

// ResolveServerEndpoints assigns each server to the slot named by its
// description. Later servers with the same label overwrite earlier ones.
func ResolveServerEndpoints(servers []spec.Server, policy ServerLabelPolicy) (ServerEndpoints, error) {
	var e ServerEndpoints
	for _, s := range servers {
		slot := e.slot(s.Description)
		if slot == nil {
			if policy == ServerLabelError {
				return ServerEndpoints{}, &UnmatchedServerError{URL: s.URL, Description: s.Description}
			}
			continue
		}
		*slot = splitServerURL(s.URL)
	}
	return e, nil
}

func (e *ServerEndpoints) slot(label string) *Endpoint {
	switch label {
	case LocalServerLabel:
		return &e.Local
	case DevServerLabel:
		return &e.Dev
	case StageServerLabel:
		return &e.Stage
	case ProdServerLabel:
		return &e.Prod
	}
	return nil
}

// Replacements returns the api_<env>_server and api_<env>_path placeholders
// for the local, dev, stage and prod environments.
func (e ServerEndpoints) Replacements() Replacements {
	return Replacements{
		Fill("api_local_server", e.Local.Server),
		Fill("api_local_path", e.Local.Path),
		Fill("api_dev_server", e.Dev.Server),
		Fill("api_dev_path", e.Dev.Path),
		Fill("api_stage_server", e.Stage.Server),
		Fill("api_stage_path", e.Stage.Path),
		Fill("api_prod_server", e.Prod.Server),
		Fill("api_prod_path", e.Prod.Path),
	}
}

func splitServerURL(raw string) Endpoint {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{Path: raw}
	}
	if u.Host == "" {
		return Endpoint{Path: u.EscapedPath()}
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return Endpoint{Server: u.Scheme + "://" + u.Host, Path: path}
}
