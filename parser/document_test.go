package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasconform/oaserrors"
)

func TestDocument_Operations(t *testing.T) {
	doc := loadTestdata(t, "petstore.yaml").Document

	var got []string
	for _, e := range doc.Operations() {
		got = append(got, e.ID())
	}
	assert.Equal(t, []string{"listPets", "createPet", "showPetById", "deletePet"}, got)

	var nilDoc *Document
	assert.Nil(t, nilDoc.Operations())
}

func TestOperationEntry_ID(t *testing.T) {
	e := OperationEntry{Path: "/pets", Method: "get", Operation: &Operation{}}
	assert.Equal(t, "GET /pets", e.ID())

	e.Operation.OperationID = "listPets"
	assert.Equal(t, "listPets", e.ID())
}

func TestDocument_OperationLookup(t *testing.T) {
	doc := loadTestdata(t, "petstore.yaml").Document

	e, ok := doc.Operation("POST", "/pets")
	require.True(t, ok)
	assert.Equal(t, "createPet", e.Operation.OperationID)
	assert.Equal(t, "post", e.Method)

	_, ok = doc.Operation("patch", "/pets")
	assert.False(t, ok)
	_, ok = doc.Operation("get", "/owners")
	assert.False(t, ok)

	e, ok = doc.OperationByID("showPetById")
	require.True(t, ok)
	assert.Equal(t, "/pets/{petId}", e.Path)
	assert.Equal(t, "get", e.Method)

	_, ok = doc.OperationByID("nope")
	assert.False(t, ok)
}

func TestDocument_Parameters(t *testing.T) {
	input := `openapi: 3.1.0
info: {title: t, version: '1'}
paths:
  /items/{id}:
    parameters:
      - $ref: '#/components/parameters/Id'
      - name: verbose
        in: query
        schema: {type: boolean}
    get:
      operationId: getItem
      parameters:
        - name: verbose
          in: query
          required: true
          schema: {type: boolean}
        - name: verbose
          in: header
          schema: {type: string}
    put:
      operationId: putItem
      parameters:
        - $ref: '#/components/parameters/Missing'
components:
  parameters:
    Id:
      name: id
      in: path
      required: true
      schema: {type: integer}
`
	result, err := ParseWithOptions(WithBytes([]byte(input)))
	require.NoError(t, err)
	doc := result.Document

	e, ok := doc.OperationByID("getItem")
	require.True(t, ok)
	params, err := doc.Parameters(e)
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "id", params[0].Name)
	assert.Equal(t, ParamInPath, params[0].In)
	assert.Equal(t, "verbose", params[1].Name)
	assert.True(t, params[1].Required, "operation parameter overrides the path-level one")
	assert.Equal(t, ParamInHeader, params[2].In)

	e, ok = doc.OperationByID("putItem")
	require.True(t, ok)
	_, err = doc.Parameters(e)
	assert.ErrorIs(t, err, oaserrors.ErrUnresolvedReference)
}

func TestDocument_SecurityFor(t *testing.T) {
	doc := loadTestdata(t, "petstore.yaml").Document

	list, _ := doc.OperationByID("listPets")
	assert.Equal(t, []SecurityRequirement{{"apiKey": {}}}, doc.SecurityFor(list.Operation))

	create, _ := doc.OperationByID("createPet")
	sec := doc.SecurityFor(create.Operation)
	assert.NotNil(t, sec)
	assert.Empty(t, sec, "an empty list opts out of document security")
}

func TestResponses_StatusCodes(t *testing.T) {
	doc := loadTestdata(t, "petstore.yaml").Document

	list, _ := doc.OperationByID("listPets")
	assert.Equal(t, []string{"200", "default"}, list.Operation.Responses.StatusCodes())

	create, _ := doc.OperationByID("createPet")
	assert.Equal(t, []string{"201", "4XX"}, create.Operation.Responses.StatusCodes())

	var none *Responses
	assert.Nil(t, none.StatusCodes())
}

func TestPathItem_Operation(t *testing.T) {
	item := &PathItem{}
	for _, m := range methodOrder {
		assert.Nil(t, item.Operation(m))
		item.setOperation(m, &Operation{OperationID: m})
	}
	for _, m := range methodOrder {
		op := item.Operation(m)
		require.NotNil(t, op, m)
		assert.Equal(t, m, op.OperationID)
	}
	assert.Nil(t, item.Operation("connect"))
}
