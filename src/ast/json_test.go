package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProgramIntReturn(t *testing.T) {
	src := []byte(`{
		"funcs": [
			{
				"kind": "FuncDecl",
				"line": 1, "col": 1,
				"data": {
					"name": "main",
					"returnType": "int",
					"params": [],
					"body": {
						"kind": "Block",
						"line": 1, "col": 1,
						"data": {
							"stmts": [
								{
									"kind": "Return",
									"line": 1, "col": 1,
									"data": {
										"value": {"kind": "IntLit", "line": 1, "col": 1, "data": {"value": 42}}
									}
								}
							]
						}
					}
				}
			}
		]
	}`)

	prog, err := DecodeProgram(NewBuilder(), src)
	require.NoError(t, err)
	require.Len(t, prog.Funcs, 1)

	fd := prog.Funcs[0]
	assert.Equal(t, "main", fd.Name)
	assert.Equal(t, "int", fd.ReturnType)
	require.Len(t, fd.Body.Stmts, 1)

	ret, ok := fd.Body.Stmts[0].(*Return)
	require.True(t, ok)
	lit, ok := ret.Value.(*IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestDecodeProgramAssignsFreshIds(t *testing.T) {
	src := []byte(`{
		"funcs": [
			{"kind":"FuncDecl","line":1,"col":1,"data":{
				"name":"f","returnType":"int","params":[],
				"body":{"kind":"Block","line":1,"col":1,"data":{"stmts":[
					{"kind":"Return","line":2,"col":3,"data":{"value":{"kind":"IntLit","line":2,"col":10,"data":{"value":1}}}}
				]}}
			}}
		]
	}`)

	prog, err := DecodeProgram(NewBuilder(), src)
	require.NoError(t, err)

	fd := prog.Funcs[0]
	ret := fd.Body.Stmts[0].(*Return)
	lit := ret.Value.(*IntLit)

	// Every node minted by the same Builder gets a distinct id, regardless
	// of what (if anything) the wire format supplied.
	ids := map[int]bool{prog.Id(): true, fd.Id(): true, fd.Body.Id(): true, ret.Id(): true, lit.Id(): true}
	assert.Len(t, ids, 5)

	line, col := lit.Pos()
	assert.Equal(t, 2, line)
	assert.Equal(t, 10, col)
}

func TestDecodeProgramArrayDecl(t *testing.T) {
	src := []byte(`{
		"funcs": [
			{"kind":"FuncDecl","line":1,"col":1,"data":{
				"name":"main","returnType":"int","params":[],
				"body":{"kind":"Block","line":1,"col":1,"data":{"stmts":[
					{"kind":"VarDecl","line":1,"col":1,"data":{
						"name":"a","typeName":"int","isArray":true,
						"size":{"kind":"IntLit","line":1,"col":1,"data":{"value":3}}
					}},
					{"kind":"Assign","line":1,"col":1,"data":{
						"name":"a",
						"index":{"kind":"IntLit","line":1,"col":1,"data":{"value":0}},
						"rhs":{"kind":"IntLit","line":1,"col":1,"data":{"value":10}}
					}},
					{"kind":"Return","line":1,"col":1,"data":{
						"value":{"kind":"IndexExpr","line":1,"col":1,"data":{
							"name":"a","index":{"kind":"IntLit","line":1,"col":1,"data":{"value":0}}
						}}
					}}
				]}}
			}}
		]
	}`)

	prog, err := DecodeProgram(NewBuilder(), src)
	require.NoError(t, err)

	decl := prog.Funcs[0].Body.Stmts[0].(*VarDecl)
	assert.True(t, decl.IsArray)
	assert.Nil(t, decl.Init)
	require.NotNil(t, decl.Size)

	assign := prog.Funcs[0].Body.Stmts[1].(*Assign)
	assert.NotNil(t, assign.Index)
}
