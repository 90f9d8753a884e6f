package namespace

import (
	_ "embed"

	"github.com/quickwritereader/flatpack/schema"
)

//go:embed schema.json
var schemaJSON []byte

// RootType is the root table of buffers built from this package.
const RootType = "NamespaceA.SecondTableInA"

// RegisterSchema adds the descriptors of every table in this package to reg,
// so the same buffers can be read through schema.View.
func RegisterSchema(reg *schema.Registry) error {
	doc, err := schema.ParseJSON(schemaJSON)
	if err != nil {
		return err
	}
	return reg.Register(doc)
}
