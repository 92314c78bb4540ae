package planparser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"alcyxob/trainingsplan/internal/domain"
)

// DetectFormat picks the document encoding from the file name, falling back to
// sniffing the content. JSON documents start with an object or array.
func DetectFormat(fileName string, content []byte) domain.DocumentFormat {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".json":
		return domain.FormatJSON
	case ".yaml", ".yml":
		return domain.FormatYAML
	}
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return domain.FormatJSON
	}
	return domain.FormatYAML
}

// Decode turns a raw document into a generic tree of maps, slices and scalars.
func Decode(content []byte, format domain.DocumentFormat) (any, error) {
	var tree any
	switch format {
	case domain.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("%w: decoding json: %v", ErrStructure, err)
		}
	case domain.FormatYAML:
		if err := yaml.Unmarshal(content, &tree); err != nil {
			return nil, fmt.Errorf("%w: decoding yaml: %v", ErrStructure, err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	return tree, nil
}
