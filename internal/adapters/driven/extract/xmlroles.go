package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure XMLRoles implements the interface.
var _ driven.RoleSource = (*XMLRoles)(nil)

// roleQuery selects every role element anywhere in the document.
const roleQuery = "//role"

// XMLRoles reads required role names from <role> elements in an XML
// definitions file, wherever they sit in the document tree.
type XMLRoles struct{}

// NewXMLRoles creates a new XML role source.
func NewXMLRoles() *XMLRoles {
	return &XMLRoles{}
}

// Roles returns every declared role name in document order. Whitespace
// around names is trimmed; empty elements are dropped; duplicates are
// preserved for the caller to deal with.
func (x *XMLRoles) Roles(_ context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	nodes, err := xmlquery.QueryAll(doc, roleQuery)
	if err != nil {
		return nil, fmt.Errorf("query roles in %s: %w", path, err)
	}

	roles := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if name := strings.TrimSpace(node.InnerText()); name != "" {
			roles = append(roles, name)
		}
	}
	return roles, nil
}
