package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_References(t *testing.T) {
	doc := loadTestdata(t, "petstore.yaml").Document
	sites := doc.References()

	want := []RefSite{
		{Location: "/paths/~1pets/get/responses/200/headers/X-Total-Count", Ref: "#/components/headers/TotalCount", Kind: KindHeaders},
		{Location: "/paths/~1pets/get/responses/200/content/application~1json/schema/items", Ref: "#/components/schemas/Pet", Kind: KindSchemas},
		{Location: "/paths/~1pets/get/responses/default", Ref: "#/components/responses/Error", Kind: KindResponses},
		{Location: "/paths/~1pets/post/requestBody", Ref: "#/components/requestBodies/NewPet", Kind: KindRequestBodies},
		{Location: "/paths/~1pets/post/responses/201/content/application~1json/schema", Ref: "#/components/schemas/Pet", Kind: KindSchemas},
		{Location: "/paths/~1pets/post/responses/201/content/application~1json/examples/rex", Ref: "#/components/examples/Rex", Kind: KindExamples},
		{Location: "/paths/~1pets/post/responses/4XX", Ref: "#/components/responses/Error", Kind: KindResponses},
		{Location: "/paths/~1pets~1{petId}/parameters/0", Ref: "#/components/parameters/PetId", Kind: KindParameters},
	}
	assert.Equal(t, want, sites[:len(want)])

	// Every reference of the fixture resolves.
	assert.Empty(t, checkReferences(doc))

	var nilDoc *Document
	assert.Nil(t, nilDoc.References())
}

func TestDocument_ReferencesInsideSchemas(t *testing.T) {
	doc := loadTestdata(t, "cycles.yaml").Document

	byLocation := make(map[string]RefSite)
	for _, s := range doc.References() {
		byLocation[s.Location] = s
	}
	site, ok := byLocation["/components/schemas/Node/properties/next/oneOf/1"]
	assert.True(t, ok)
	assert.Equal(t, "#/components/schemas/Node", site.Ref)
	assert.Equal(t, KindSchemas, site.Kind)

	assert.Contains(t, byLocation, "/components/schemas/WrongKind")
	assert.Equal(t, "#/components/parameters/Limit", byLocation["/components/schemas/WrongKind"].Ref)
}
