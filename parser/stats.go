package parser

// DocumentStats contains statistical information about an OAS document
type DocumentStats struct {
	PathCount      int // Number of paths defined
	OperationCount int // Total number of operations across all paths
	SchemaCount    int // Number of component schemas
	ComponentCount int // Number of components of every kind
}

// GetDocumentStats returns statistics for a loaded document
func GetDocumentStats(doc *Document) DocumentStats {
	if doc == nil {
		return DocumentStats{}
	}
	return DocumentStats{
		PathCount:      len(doc.Paths),
		OperationCount: len(doc.Operations()),
		SchemaCount:    len(doc.Components.Names(KindSchemas)),
		ComponentCount: doc.Components.Count(),
	}
}
