// Package canonical renders values as JSON with every object's keys sorted,
// so structurally equal values always produce identical bytes.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Strings are copied byte for byte, invalid UTF-8 included, so distinct
// inputs never collapse to the same digest.
var api = sonic.Config{
	SortMapKeys: true,
	EscapeHTML:  false,
}.Froze()

// Marshal returns the compact canonical encoding of v.
func Marshal(v any) ([]byte, error) {
	tree, err := toTree(v)
	if err != nil {
		return nil, err
	}
	out, err := api.Marshal(tree)
	if err != nil {
		return nil, crerr.Wrap(err, "encode canonical json")
	}
	return out, nil
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(v any) ([]byte, error) {
	tree, err := toTree(v)
	if err != nil {
		return nil, err
	}
	out, err := api.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, crerr.Wrap(err, "encode canonical json")
	}
	return out, nil
}

// Digest is the hex SHA-256 of the canonical encoding of v.
func Digest(v any) (string, error) {
	raw, err := Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// toTree round-trips v through generic maps so struct field order does not
// leak into the output.
func toTree(v any) (any, error) {
	raw, err := api.Marshal(v)
	if err != nil {
		return nil, crerr.Wrap(err, "encode value")
	}
	var tree any
	if err := api.Unmarshal(raw, &tree); err != nil {
		return nil, crerr.Wrap(err, "decode value tree")
	}
	return tree, nil
}
