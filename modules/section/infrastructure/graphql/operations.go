package graphql

import (
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSource string

const sectionFields = `
    id
    templateId
    name
    introduction
    requirements
    guidance
    displayOrder
    bestPractice
    tags { id name description }`

const (
	getSectionQuery = `query getSection($id: Int!) {
  section(id: $id) {` + sectionFields + `
  }
}`

	getTagsQuery = `query getTags {
  tags { id name description }
}`

	updateSectionMutation = `mutation updateSection($input: UpdateSectionInput!) {
  updateSection(input: $input) {
    section {` + sectionFields + `
    }
    errors {
      __typename
      name
      introduction
      requirements
      guidance
      displayOrder
      bestPractice
      general
    }
  }
}`

	removeSectionMutation = `mutation removeSection($id: Int!) {
  removeSection(id: $id) { id }
}`
)

// Operation is a named document checked against the API schema.
type Operation struct {
	Name  string
	Query string
}

var operations = []Operation{
	{Name: "getSection", Query: getSectionQuery},
	{Name: "getTags", Query: getTagsQuery},
	{Name: "updateSection", Query: updateSectionMutation},
	{Name: "removeSection", Query: removeSectionMutation},
}

func LoadSchema() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		return nil, errors.Wrap(err, "load sections schema")
	}
	return schema, nil
}

// ValidateOperations parses every operation the client sends and checks it
// against schema, so a drifted document fails at startup instead of at the
// first save.
func ValidateOperations(schema *ast.Schema, ops ...Operation) error {
	for _, op := range ops {
		doc, errs := gqlparser.LoadQuery(schema, op.Query)
		if len(errs) > 0 {
			return errors.Wrapf(errs, "operation %s", op.Name)
		}
		if doc.Operations.ForName(op.Name) == nil {
			return errors.Errorf("operation %s: document does not define it", op.Name)
		}
	}
	return nil
}
