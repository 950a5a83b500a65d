package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// ParamType classifies an extracted path parameter.
type ParamType string

// Parameter types, in extraction precedence order.
const (
	ParamUUID         ParamType = "uuid"
	ParamNumericID    ParamType = "numeric_id"
	ParamAlphanumeric ParamType = "alphanumeric_id"
)

// Parameter is one identifier-like path segment: the literal substring
// matched, paired with its classified kind.
type Parameter struct {
	Type  ParamType `json:"type"`
	Value string    `json:"value"`
}

// Placeholder returns the path placeholder substituted for this parameter
// type.
func (t ParamType) Placeholder() string {
	switch t {
	case ParamUUID:
		return "{uuid}"
	case ParamNumericID:
		return "{id}"
	default:
		return "{param}"
	}
}

// DefaultStoplist lists path segments that look identifier-like but are
// common API vocabulary, never extracted as parameters.
var DefaultStoplist = []string{
	"api", "v1", "v2", "v3", "users", "user", "products", "product",
}

var (
	uuidPattern    = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	numericPattern = regexp.MustCompile(`/([0-9]+)(/|$)`)
	alnumPattern   = regexp.MustCompile(`/([a-zA-Z0-9]+)/`)
)

// Extractor detects identifier-like path segments and rewrites them with
// typed placeholders. The stoplist is explicit configuration so instances
// with different vocabularies can coexist.
type Extractor struct {
	stoplist map[string]struct{}
}

// NewExtractor creates an extractor with the given stoplist. A nil slice
// uses DefaultStoplist.
func NewExtractor(stoplist []string) *Extractor {
	if stoplist == nil {
		stoplist = DefaultStoplist
	}

	stop := make(map[string]struct{}, len(stoplist))
	for _, word := range stoplist {
		stop[strings.ToLower(word)] = struct{}{}
	}

	return &Extractor{stoplist: stop}
}

// ExtractFromURL parses a URL and extracts path parameters from it.
// Returns the normalized path and the parameters found.
func (e *Extractor) ExtractFromURL(rawURL string) (string, []Parameter, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, err
	}

	path, params := e.ExtractFromPath(u.Path)
	return path, params, nil
}

// ExtractFromPath extracts path parameters and substitutes placeholders.
// Passes run in a fixed order: UUID, then numeric segments, then generic
// alphanumeric segments. Each pass operates on the path as rewritten by
// the previous one, so the ordering determines precedence when a token
// could match more than one pattern.
func (e *Extractor) ExtractFromPath(path string) (string, []Parameter) {
	params := []Parameter{}

	for _, match := range uuidPattern.FindAllString(path, -1) {
		params = append(params, Parameter{Type: ParamUUID, Value: match})
	}
	path = uuidPattern.ReplaceAllString(path, "{uuid}")

	// Numeric segments match in final position too, so /users/123 and
	// /users/123/ both collapse to the same placeholder.
	for _, match := range numericPattern.FindAllStringSubmatch(path, -1) {
		params = append(params, Parameter{Type: ParamNumericID, Value: match[1]})
	}
	path = numericPattern.ReplaceAllString(path, "/{id}$2")

	path = alnumPattern.ReplaceAllStringFunc(path, func(match string) string {
		value := strings.Trim(match, "/")
		if _, stopped := e.stoplist[strings.ToLower(value)]; stopped {
			return match
		}
		params = append(params, Parameter{Type: ParamAlphanumeric, Value: value})
		return "/{param}/"
	})

	return path, params
}

// SubstitutePlaceholders rewrites a path using already-classified
// parameters, replacing each parameter's literal value with the
// placeholder for its type. Used when a collaborator supplies parameters
// it extracted itself.
func SubstitutePlaceholders(path string, params []Parameter) string {
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		path = strings.ReplaceAll(path, p.Value, p.Type.Placeholder())
	}
	return path
}
