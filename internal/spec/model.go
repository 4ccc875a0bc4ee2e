package spec

// Normalized operation model shared by the code generators and the emitter.

type HttpMethod string

const (
	GET     HttpMethod = "get"
	PUT     HttpMethod = "put"
	POST    HttpMethod = "post"
	PATCH   HttpMethod = "patch"
	DELETE  HttpMethod = "delete"
	OPTIONS HttpMethod = "options"
	HEAD    HttpMethod = "head"
	TRACE   HttpMethod = "trace"
)

// Methods lists every key of a path item that is treated as an operation.
var Methods = []HttpMethod{GET, PUT, POST, PATCH, DELETE, OPTIONS, HEAD, TRACE}

// ParseMethod reports whether key names an HTTP method of a path item.
// Path item keys are case-sensitive, so "GET" is not a method.
func ParseMethod(key string) (HttpMethod, bool) {
	for _, m := range Methods {
		if string(m) == key {
			return m, true
		}
	}
	return "", false
}

type Info struct {
	Title       string
	Version     string
	Description string
}

type Server struct {
	URL         string
	Description string
}

type Parameter struct {
	Name        string
	In          string // path|query|header|cookie
	Description string
	Required    bool
	Ref         string // set when the entry is a $ref
}

// Operation is one method on one path, with path-level parameters and servers
// already appended after the operation's own entries.
type Operation struct {
	Path        string
	Method      HttpMethod
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	Servers     []Server
}

// Key identifies the operation by method and path, e.g. "post /v1/test-action".
func (o Operation) Key() string { return string(o.Method) + " " + o.Path }

// PathItem groups the operations of a single path in declared key order.
type PathItem struct {
	Path       string
	Operations []Operation
}
