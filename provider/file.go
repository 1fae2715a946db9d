package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-memrepo/memrepo/dlog"
	"github.com/go-memrepo/memrepo/record"
)

// FileOption configures a FileProvider.
type FileOption func(*FileProvider)

// WithIDField sets the identifier field enforced on the stores built
// from the files.
func WithIDField(name string) FileOption {
	return func(p *FileProvider) {
		p.idField = name
	}
}

func WithLogger(logger *slog.Logger) FileOption {
	return func(p *FileProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewFileProvider maps logical identifiers to data files. JSON and YAML
// files are supported, selected by file extension. The order of the
// records in the file is preserved as the store's insertion order: for a
// top-level sequence the index becomes the store key, for a top-level
// mapping the mapping key does.
func NewFileProvider(sources map[string]string, opts ...FileOption) *FileProvider {
	provider := &FileProvider{
		sources: sources,
		idField: "id",
		logger:  dlog.NewNoop(),
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider
}

var _ Provider = (*FileProvider)(nil)

type FileProvider struct {
	sources map[string]string
	idField string
	logger  *slog.Logger
}

func (p *FileProvider) Fetch(ctx context.Context, sourceIdentifier string) (*record.Store, error) {
	path, ok := p.sources[sourceIdentifier]
	if !ok {
		return nil, fmt.Errorf("%w: no source configured for %q", ErrDataProvider, sourceIdentifier)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataProvider, err)
	}
	defer file.Close()

	var records []record.Keyed

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = decodeJSON(file)
	case ".yaml", ".yml":
		records, err = decodeYAML(file)
	default:
		err = fmt.Errorf("unsupported file format %q", filepath.Ext(path))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataProvider, path, err)
	}

	p.logger.DebugContext(ctx, "loaded record source",
		slog.String("identifier", sourceIdentifier),
		slog.String("path", path),
		slog.Int("records", len(records)),
	)

	return record.NewStore(records, record.WithIDField(p.idField)), nil
}

// decodeJSON reads a top-level array or object of records. The token
// stream is walked by hand, because decoding an object into a Go map
// would lose the key order of the file.
func decodeJSON(r io.Reader) ([]record.Keyed, error) {
	dec := json.NewDecoder(r)

	open, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("not a record collection: %v", err)
	}

	delim, ok := open.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("not a record collection: unexpected %v", open)
	}

	var records []record.Keyed

	switch delim {
	case '[':
		for i := int64(0); dec.More(); i++ {
			var rec record.Record
			if err := dec.Decode(&rec); err != nil {
				return nil, fmt.Errorf("record %d is not a field mapping: %v", i, err)
			}

			records = append(records, record.Keyed{Key: record.IntKey(i), Record: rec})
		}
	case '{':
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}

			key, _ := keyToken.(string)

			var rec record.Record
			if err := dec.Decode(&rec); err != nil {
				return nil, fmt.Errorf("record %q is not a field mapping: %v", key, err)
			}

			records = append(records, record.Keyed{Key: record.StringKey(key), Record: rec})
		}
	default:
		return nil, fmt.Errorf("not a record collection: unexpected %v", delim)
	}

	return records, nil
}

// decodeYAML reads a top-level sequence or mapping of records via the
// yaml node API, which preserves the document order of mapping keys.
func decodeYAML(r io.Reader) ([]record.Keyed, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("not a record collection: %v", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var records []record.Keyed

	switch root.Kind {
	case yaml.SequenceNode:
		for i, node := range root.Content {
			rec, err := decodeYAMLRecord(node)
			if err != nil {
				return nil, fmt.Errorf("record %d: %v", i, err)
			}

			records = append(records, record.Keyed{Key: record.IntKey(int64(i)), Record: rec})
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			keyNode := root.Content[i]

			key := record.StringKey(keyNode.Value)
			if keyNode.Tag == "!!int" {
				var n int64
				if err := keyNode.Decode(&n); err == nil {
					key = record.IntKey(n)
				}
			}

			rec, err := decodeYAMLRecord(root.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("record %q: %v", keyNode.Value, err)
			}

			records = append(records, record.Keyed{Key: key, Record: rec})
		}
	default:
		return nil, fmt.Errorf("not a record collection: unexpected %v node", root.Kind)
	}

	return records, nil
}

func decodeYAMLRecord(node *yaml.Node) (record.Record, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("not a field mapping")
	}

	var rec record.Record
	if err := node.Decode(&rec); err != nil {
		return nil, err
	}

	return rec, nil
}
