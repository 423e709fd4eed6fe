package pipeline

import (
	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Parse reads one JSON document, rejecting documents larger than
// [apperrors.MaxDocumentSize]. Errors carry the INVALID_INPUT or
// INPUT_TOO_LARGE code.
func Parse(data []byte) (jsonvalue.Value, error) {
	if err := apperrors.ValidateDocumentSize(len(data)); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.Parse(data)
}

// Build parses data and builds its tree without laying it out.
func Build(data []byte) (*tree.Graph, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return tree.Build(v), nil
}
