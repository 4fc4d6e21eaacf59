package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	pkgerrors "github.com/agentstation/learnmerge/pkg/errors"
	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// isYAML reports whether path names a YAML document.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// MarshalResult encodes res as YAML when path ends in .yaml or .yml and as
// indented JSON otherwise.
func MarshalResult(path string, res *reconcile.Result) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.MarshalWithOptions(res, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return nil, pkgerrors.WrapParse("yaml", path, err)
		}
		return data, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return nil, pkgerrors.WrapParse("json", path, err)
	}
	return buf.Bytes(), nil
}

// SaveResult writes res to path so it can be exported later.
func SaveResult(path string, res *reconcile.Result) error {
	data, err := MarshalResult(path, res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return pkgerrors.WrapIO("write", path, err)
	}
	return nil
}

// LoadResult reads a result saved by SaveResult.
func LoadResult(path string) (*reconcile.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.WrapIO("read", path, err)
	}

	var res reconcile.Result
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &res); err != nil {
			return nil, pkgerrors.WrapParse("yaml", path, err)
		}
	} else if err := json.Unmarshal(data, &res); err != nil {
		return nil, pkgerrors.WrapParse("json", path, err)
	}
	return &res, nil
}
